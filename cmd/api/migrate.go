package main

import "github.com/spf13/cobra"

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create collections, tables, validators and indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			a.log.Info("migrations applied")
			return nil
		},
	}
}
