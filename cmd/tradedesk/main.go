// Command tradedesk runs analyses from the terminal and prints JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tradedesk/internal/app/di"
)

// containerFactory builds the usecases once per invocation. Tests replace it.
var containerFactory = func(ctx context.Context) (*di.Container, func(), error) {
	deps, cleanup, err := di.NewInfra(ctx)
	if err != nil {
		return nil, nil, err
	}
	c, err := di.NewContainer(ctx, deps)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return c, cleanup, nil
}

func newRootCmd() *cobra.Command {
	var (
		timeout time.Duration
		verbose bool
		cleanup func()
		cancel  context.CancelFunc
	)
	state := &cliState{}

	root := &cobra.Command{
		Use:   "tradedesk",
		Short: "Technical analysis and strategy levels for stocks and crypto",
		Long: `tradedesk computes indicators, per-strategy stop-loss / take-profit levels,
a consensus, a fused score and a moving-average crossover backtest for one
symbol, and prints the result as JSON.

Examples:
  tradedesk symbols --category tw --query 台積
  tradedesk analyze 2330.TW --timeframe 1d --side auto
  tradedesk backtest NVDA --timeframe 1wk
  tradedesk warm --timeframes 1d,1h`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(".env"); err == nil && verbose {
				slog.Info(".env loaded")
			}
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			ctx, c := context.WithTimeout(cmd.Context(), timeout)
			cancel = c
			cmd.SetContext(ctx)

			container, clean, err := containerFactory(ctx)
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			state.container, cleanup = container, clean
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cleanup != nil {
				cleanup()
			}
			if cancel != nil {
				cancel()
			}
		},
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall timeout for the command")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		newAnalyzeCmd(state),
		newBacktestCmd(state),
		newSymbolsCmd(state),
		newWarmCmd(state),
	)
	return root
}

// cliState は PersistentPreRunE で組み立てた依存をサブコマンドへ渡します。
type cliState struct {
	container *di.Container
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
