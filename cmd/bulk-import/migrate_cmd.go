package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/hr-bulk-import/internal/repository"
	"github.com/joseph-ayodele/hr-bulk-import/internal/server"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing lookup, employee and ledger tables",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer server.CloseDB(store, a.logger)

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", len(repository.Tables))
			return nil
		},
	}
}
