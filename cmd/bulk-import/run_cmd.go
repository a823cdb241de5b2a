package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/normalize"
	"github.com/joseph-ayodele/hr-bulk-import/internal/events"
	"github.com/joseph-ayodele/hr-bulk-import/internal/repository"
	"github.com/joseph-ayodele/hr-bulk-import/internal/server"
	"github.com/joseph-ayodele/hr-bulk-import/internal/telemetry"
)

type runOptions struct {
	JobID     string
	Workers   int
	BatchSize int
	ReportDir string
	Aliases   string
	Ephemeral bool
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <spreadsheet.xlsx>",
		Short: "Import one spreadsheet and write <name>_failed.xlsx for rejected rows",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
			}
			if !constants.IsSpreadsheet(filepath.Ext(path)) {
				return fmt.Errorf("%s: unsupported extension: %w", path, common.ErrInvalidInput)
			}
			if cmd.Flags().Changed("workers") {
				a.cfg.Import.Workers = opts.Workers
			}
			if cmd.Flags().Changed("batch-size") {
				a.cfg.Import.BatchUpdateSize = opts.BatchSize
			}
			if opts.Aliases != "" {
				a.cfg.Import.AliasesFile = opts.Aliases
			}

			ctx := cmd.Context()
			aliases, err := normalize.LoadAliases(a.cfg.Import.AliasesFile)
			if err != nil {
				return err
			}

			var store *repository.Store
			if opts.Ephemeral {
				s, cleanup, err := repository.OpenEphemeral(ctx, a.logger)
				if err != nil {
					return err
				}
				defer cleanup()
				store = s
			} else {
				s, err := a.connect(ctx)
				if err != nil {
					return err
				}
				defer server.CloseDB(s, a.logger)
				store = s
			}

			shutdownTracing, err := telemetry.Setup(ctx, a.cfg.Telemetry, a.logger)
			if err != nil {
				return err
			}
			defer func() { _ = shutdownTracing(ctx) }()

			publisher, err := events.New(a.cfg.Events, a.logger)
			if err != nil {
				a.logger.Warn("job events disabled", "error", err)
				publisher = events.NopPublisher{}
			}
			defer func() { _ = publisher.Close() }()

			imp := core.NewImporter(store, repository.NewUploadJobRepository(store, a.logger),
				core.WithLogger(a.logger),
				core.WithWorkers(a.cfg.Import.Workers),
				core.WithBatchSize(a.cfg.Import.BatchUpdateSize),
				core.WithNormalizer(normalize.New(aliases)),
				core.WithPublisher(publisher),
				core.WithReportDir(opts.ReportDir),
			)
			res, err := imp.RunImport(ctx, path, opts.JobID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "job %s: %d rows, %d failed, %s\n", res.JobID, res.Total, res.Failed, res.Elapsed.Round(time.Millisecond))
			if res.ReportPath != "" {
				fmt.Fprintf(out, "failed rows written to %s\n", res.ReportPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.JobID, "job-id", "", "job id to record in the ledger (default: new UUID)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "rows processed concurrently (default IMPORT_WORKERS)")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 0, "rows per ledger progress update (default BATCH_UPDATE_SIZE)")
	cmd.Flags().StringVar(&opts.ReportDir, "report-dir", "", "directory for the failed-rows workbook (default: next to the input)")
	cmd.Flags().StringVar(&opts.Aliases, "aliases", "", "YAML file overriding designation/qualification aliases")
	cmd.Flags().BoolVar(&opts.Ephemeral, "ephemeral", false, "import into a throwaway SQLite database (dry run)")
	return cmd
}
