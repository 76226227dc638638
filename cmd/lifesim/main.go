/*
main.go - Application entry point

PURPOSE:
  The lifesim command. Two subcommands:
    serve     Run the HTTP API over SQLite save slots
    simulate  Play a game headless for N months and print every ledger

CONFIGURATION:
  Environment first (see config/config.go), then flags.

EXAMPLES:
  # Serve with an in-memory database
  lifesim serve --db=":memory:"

  # Two years of the in-debt preset, paying $300/month
  lifesim simulate --preset in-debt --months 24 --debt 300

SEE ALSO:
  - cmd/lifesim/serve.go
  - cmd/lifesim/simulate.go
*/
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/warp/lifesim/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:          "lifesim",
		Short:        "Monthly life-finance simulation",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	root.AddCommand(
		newServeCmd(&cfg),
		newSimulateCmd(&cfg),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*log.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "lifesim",
	})
	logger.SetLevel(lvl)
	return logger, nil
}
