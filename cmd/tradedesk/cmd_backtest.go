package main

import (
	"github.com/spf13/cobra"

	"tradedesk/internal/feature/analysis/transport/http/dto"
)

func newBacktestCmd(state *cliState) *cobra.Command {
	var timeframe string
	cmd := &cobra.Command{
		Use:   "backtest SYMBOL",
		Short: "Backtest the SMA(20)/EMA(50) crossover for one symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := state.container.Analysis.Backtest(cmd.Context(), args[0], timeframe)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.NewBacktestReportResponse(out))
		},
	}
	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "1d", "Timeframe key (15m, 30m, 1h, 4h, 1d, 1wk)")
	return cmd
}
