package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

func NewMigrateCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users and tasks schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, release, err := f.build()
			if err != nil {
				return err
			}
			defer release()
			if a.DB == nil {
				cmd.Println("memory driver: nothing to migrate")
				return nil
			}
			if err := a.Migrate(); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "migrate").Wrap(err)
			}
			cmd.Println("migrations completed")
			return nil
		},
	}
}
