package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"tradedesk/internal/feature/analysis/domain/entity"
	"tradedesk/internal/feature/analysis/transport/http/dto"
	"tradedesk/internal/feature/analysis/usecase"
)

func newAnalyzeCmd(state *cliState) *cobra.Command {
	var (
		timeframe string
		side      string
		mode      string
		instNet   float64
		full      bool
		insight   bool
	)
	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Run the full analysis for one symbol",
		Long: `Run indicators, strategies, consensus, score fusion, Fibonacci structure
and the crossover backtest for SYMBOL.

Examples:
  tradedesk analyze 2330.TW
  tradedesk analyze BTC-USD --timeframe 4h --mode conservative3
  tradedesk analyze NVDA --side short --full
  tradedesk analyze 2330.TW --inst-net 6.5 --insight`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := usecase.Request{
				Symbol:    args[0],
				Timeframe: timeframe,
				Side:      entity.Side(side),
				Mode:      entity.Mode(mode),
			}
			if cmd.Flags().Changed("inst-net") {
				if math.IsNaN(instNet) || math.IsInf(instNet, 0) {
					return fmt.Errorf("invalid --inst-net %v", instNet)
				}
				req.Chips = &entity.ChipData{InstitutionalNetPct: instNet}
			}

			c := state.container
			report, err := c.Analysis.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), dto.NewReportResponse(report, !full)); err != nil {
				return err
			}
			if !insight {
				return nil
			}
			out, err := c.Insight.Summarize(cmd.Context(), report)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.NewInsightResponse(out))
		},
	}
	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "1d", "Timeframe key (15m, 30m, 1h, 4h, 1d, 1wk)")
	cmd.Flags().StringVar(&side, "side", "auto", "Position side (auto, long, short)")
	cmd.Flags().StringVar(&mode, "mode", "mean", "Consensus mode (mean, conservative3)")
	cmd.Flags().Float64Var(&instNet, "inst-net", 0, "Institutional net buying in percent")
	cmd.Flags().BoolVar(&full, "full", false, "Include candles and indicator series")
	cmd.Flags().BoolVar(&insight, "insight", false, "Also summarize the report with Gemini")
	return cmd
}
