package main

import (
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-loader/internal/importer"
	"github.com/fekuna/omnipos-inventory-loader/internal/skiplog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newImportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import products, variations, purchases and sales from a CSV or XLSX file",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer a.Close()
			return runImport(cmd, a, args[0])
		},
	}

	cmd.Flags().Bool("dry-run", false, "Run the whole import and roll it back")
	cmd.Flags().Int("batch-size", importer.DefaultBatchSize, "Rows per bulk INSERT statement")
	cmd.Flags().String("encoding", "latin1", "Text encoding of CSV input")
	cmd.Flags().String("skipped-dir", "", "Directory for the CSV log of rejected rows")

	_ = v.BindPFlag("IMPORT_DRY_RUN", cmd.Flags().Lookup("dry-run"))
	_ = v.BindPFlag("IMPORT_BATCH_SIZE", cmd.Flags().Lookup("batch-size"))
	_ = v.BindPFlag("IMPORT_ENCODING", cmd.Flags().Lookup("encoding"))
	_ = v.BindPFlag("IMPORT_SKIPPED_DIR", cmd.Flags().Lookup("skipped-dir"))

	return cmd
}

func runImport(cmd *cobra.Command, a *app, path string) error {
	cfg := a.cfg.Import

	skipped := skiplog.Discard()
	if cfg.SkippedDir != "" {
		name := fmt.Sprintf("skipped_%s.csv", time.Now().Format("20060102T150405"))
		l, err := skiplog.Create(cfg.SkippedDir, name)
		if err != nil {
			return err
		}
		skipped = l
	}
	defer func() {
		if err := skipped.Close(); err != nil {
			a.log.Warn("Could not write skip log", zap.Error(err))
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Iniciando la importación desde '%s'...\n", path)

	im := importer.New(importer.Deps{
		DB:      a.db,
		Logger:  a.log,
		Metrics: a.metrics,
		Skipped: skipped,
	}, importer.Options{
		BatchSize:       cfg.BatchSize,
		DryRun:          cfg.DryRun,
		Encoding:        cfg.Encoding,
		DefaultCategory: cfg.DefaultCategory,
		DefaultBrand:    cfg.DefaultBrand,
	})

	summary, err := im.ImportFile(cmd.Context(), path)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), summary.String())
	return nil
}
