package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okian/medalboard/internal/adapters/export"
	app "github.com/okian/medalboard/internal/app"
	"github.com/okian/medalboard/internal/config"
	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/report"
	"github.com/okian/medalboard/pkg/logger"
)

// flags holds the persistent command-line flags.
type flags struct {
	data    string
	strict  bool
	rows    int
	noColor bool
	verbose bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "medal-report",
		Short:         "Tidy the 2008 Olympic medalists table and query it.",
		Long:          `medal-report melts the wide medalists CSV into one row per medal and prints the pipeline stages, medal counts and lookups.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&f.data, "data", "", "wide medal CSV (defaults to data_path from config)")
	pf.BoolVar(&f.strict, "strict", false, "fail on column keys without a gender/event separator")
	pf.IntVar(&f.rows, "rows", 0, "rows per preview table (defaults to preview_rows from config)")
	pf.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "log pipeline diagnostics to stderr")

	root.AddCommand(
		newOverviewCmd(f),
		newAthleteCmd(f),
		newMedalistsCmd(f),
		newExportCmd(f),
	)
	return root
}

func newOverviewCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Print the raw, melted and tidy previews with medal counts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, f, func(ctx context.Context, svc *app.Service) error {
				v, err := svc.Report(ctx, model.Selection{})
				if err != nil {
					return err
				}
				return printer(cmd, f).Overview(v)
			})
		},
	}
}

func newAthleteCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "athlete <name>",
		Short: "Print every medal one athlete won.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, f, func(ctx context.Context, svc *app.Service) error {
				achievements, err := svc.Athlete(ctx, args[0])
				if err != nil {
					return err
				}
				return printer(cmd, f).Athlete(args[0], achievements)
			})
		},
	}
}

func newMedalistsCmd(f *flags) *cobra.Command {
	var sel model.Selection
	cmd := &cobra.Command{
		Use:   "medalists",
		Short: "Print the medalists of one gendered event, gold first.",
		Long:  `Empty --gender or --event fall back to the first value in the table.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, f, func(ctx context.Context, svc *app.Service) error {
				v, err := svc.Report(ctx, sel)
				if err != nil {
					return err
				}
				return printer(cmd, f).Medalists(v.Selection.Gender, v.Selection.Event, v.Medalists)
			})
		},
	}
	cmd.Flags().StringVar(&sel.Gender, "gender", "", "gender label, e.g. Female")
	cmd.Flags().StringVar(&sel.Event, "event", "", "event label, e.g. Judo")
	return cmd
}

func newExportCmd(f *flags) *cobra.Command {
	var format, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full tidy table as csv, json or parquet.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ft, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			return withService(cmd, f, func(ctx context.Context, svc *app.Service) error {
				if outPath == "" || outPath == "-" {
					return svc.Export(ctx, cmd.OutOrStdout(), ft)
				}
				file, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("export: %w", err)
				}
				if err := svc.Export(ctx, file, ft); err != nil {
					_ = file.Close()
					return err
				}
				if err := file.Close(); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				_, err = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outPath)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.CSV), "output format: csv, json or parquet")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")
	return cmd
}

// withService loads the dataset, runs fn and stops the service.
func withService(cmd *cobra.Command, f *flags, fn func(context.Context, *app.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if f.data != "" {
		cfg.DataPath = f.data
	}
	if f.rows > 0 {
		cfg.PreviewRows = f.rows
	}

	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	level := "warn"
	if f.verbose {
		level = "info"
	}
	_ = logger.SetLevelString(level)

	svc := app.New(
		app.WithLogger(logger.Named("medal-report")),
		app.WithDataPath(cfg.DataPath),
		app.WithPreviewRows(cfg.PreviewRows),
		app.WithStrictKeys(f.strict || cfg.StrictKeys),
		app.WithSessionTTL(time.Duration(cfg.SessionTTLMinutes)*time.Minute),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	return fn(ctx, svc)
}

func printer(cmd *cobra.Command, f *flags) *report.Printer {
	return report.New(cmd.OutOrStdout(), report.WithColor(!f.noColor && !color.NoColor))
}
