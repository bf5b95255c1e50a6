package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newWarmCmd(state *cliState) *cobra.Command {
	var (
		timeframes string
		refresh    bool
	)
	cmd := &cobra.Command{
		Use:   "warm [SYMBOL...]",
		Short: "Prefetch price series into the Redis cache",
		Long: `Fetch the price series of the given symbols (all catalog symbols when none
are given) for each timeframe, so that later analyses are served from Redis.
Without REDIS_HOST / REDIS_URL this only checks that the data is reachable.
--refresh drops the cached series of each symbol before fetching.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := state.container
			symbols := args
			if len(symbols) == 0 {
				all, err := c.Symbols.ListSymbols(cmd.Context(), "")
				if err != nil {
					return err
				}
				for _, s := range all {
					symbols = append(symbols, s.Code)
				}
			}
			var tfs []string
			for _, tf := range strings.Split(timeframes, ",") {
				if tf = strings.TrimSpace(tf); tf != "" {
					tfs = append(tfs, tf)
				}
			}

			if refresh {
				if err := c.Marketdata.Invalidate(cmd.Context(), symbols...); err != nil {
					return err
				}
			}
			res, err := c.Marketdata.Warm(cmd.Context(), symbols, tfs)
			if werr := writeJSON(cmd.OutOrStdout(), res); werr != nil {
				return werr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&timeframes, "timeframes", "1d", "Comma separated timeframe keys")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Invalidate cached series before fetching")
	return cmd
}
