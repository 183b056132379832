package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/xelth-com/asbuiltgo/internal/app"
	"github.com/xelth-com/asbuiltgo/internal/models"
	"github.com/xelth-com/asbuiltgo/internal/services/report"
)

const (
	buildingFlag = "edificacao"
	outFlag      = "out"
)

var reportFlags = map[string]cobraflags.Flag{
	buildingFlag: &cobraflags.StringFlag{
		Name:  buildingFlag,
		Value: "",
		Usage: "Restrict the report to one building (empty for all)",
	},
	outFlag: &cobraflags.StringFlag{
		Name:  outFlag,
		Value: "",
		Usage: "Output file (defaults to the generated report name in the current directory)",
	},
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app.App) error {
				fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", a.DB.Dialect())
				return nil
			})
		},
	}
}

func newIngestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file.xlsx>",
		Short: "Replace the dataset with the contents of a verification workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Services.Ingestion.Ingest(ctx, filepath.Base(args[0]), data, models.SystemUserID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "report pdf|excel",
		Short:     "Render the executive PDF or the Excel issue listing",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"pdf", "excel"},
		RunE: func(cmd *cobra.Command, args []string) error {
			building := reportFlags[buildingFlag].GetString()
			out := reportFlags[outFlag].GetString()

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				var file *report.File
				var err error
				if args[0] == "pdf" {
					file, err = a.Services.Report.PDF(ctx, building)
				} else {
					file, err = a.Services.Report.Excel(ctx, building)
				}
				if err != nil {
					return err
				}

				if out == "" {
					out = file.FileName
				}
				if err := os.WriteFile(out, file.Data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(file.Data))
				return nil
			})
		},
	}
	cobraflags.RegisterMap(cmd, reportFlags)
	return cmd
}

func newIntegrityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "integrity",
		Short: "List issues whose room is missing from the room mapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				integrity, err := a.Services.Dashboard.Integrity(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), integrity)
			})
		},
	}
}

func newWeeksCommand() *cobra.Command {
	var building string
	cmd := &cobra.Command{
		Use:   "weeks",
		Short: "Print issues and verified rooms per ISO week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				points, err := a.Services.Dashboard.WeeklyTrend(ctx, building)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "SEMANA\tAPONTAMENTOS\tSALAS VERIFICADAS")
				for _, p := range points {
					fmt.Fprintf(tw, "%s\t%d\t%d\n", p.Week, p.Count, p.VerifiedRooms)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&building, buildingFlag, "", "Restrict to one building (empty for all)")
	return cmd
}
