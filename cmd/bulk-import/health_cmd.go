package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/hr-bulk-import/internal/server"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Ping the configured database",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer server.CloseDB(store, a.logger)

			fmt.Fprintf(cmd.OutOrStdout(), "DB health: OK (%s)\n", store.Dialect())
			return nil
		},
	}
}
