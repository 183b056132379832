package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/xelth-com/asbuiltgo/internal/app"
	"github.com/xelth-com/asbuiltgo/internal/config"
	"github.com/xelth-com/asbuiltgo/internal/logger"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "asbuiltctl",
		Short: "Operate the as-built verification dashboard from the command line",
		Long: `asbuiltctl works directly on the dashboard database configured through
the same environment (.env) as the API server.

Examples:
  asbuiltctl migrate
  asbuiltctl seed
  asbuiltctl ingest verificacao.xlsx
  asbuiltctl report pdf --edificacao "Bloco A" --out relatorio.pdf
  asbuiltctl integrity
  asbuiltctl weeks`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newMigrateCommand(),
		newIngestCommand(),
		newReportCommand(),
		newIntegrityCommand(),
		newWeeksCommand(),
		newSeedCommand(),
	)
	return root
}

// withApp opens the configured database and services for one command
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
