package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/hr-bulk-import/internal/repository"
	"github.com/joseph-ayodele/hr-bulk-import/internal/server"
)

func newJobCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect or delete upload jobs in the ledger",
	}
	cmd.AddCommand(newJobShowCmd(a))
	cmd.AddCommand(newJobDeleteCmd(a))
	return cmd
}

func newJobShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Print a job's ledger entry as JSON",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer server.CloseDB(store, a.logger)

			job, err := repository.NewUploadJobRepository(store, a.logger).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(job)
		},
	}
}

func newJobDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Soft-delete a job; later progress updates for it are rejected",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer server.CloseDB(store, a.logger)

			if err := repository.NewUploadJobRepository(store, a.logger).SoftDelete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "job %s deleted\n", args[0])
			return nil
		},
	}
}
