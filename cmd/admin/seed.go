package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

func NewSeedCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the configured administrator if no Admin exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, release, err := f.build()
			if err != nil {
				return err
			}
			defer release()
			if a.Cfg.Seed.Password == "" {
				return oops.Code("CONFIG_INVALID").Errorf("seed.password is required")
			}
			if err := a.Migrate(); err != nil {
				return oops.Code("MIGRATION_FAILED").Wrap(err)
			}
			created, err := a.SeedAdmin(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				cmd.Printf("admin %s created\n", a.Cfg.Seed.Email)
			} else {
				cmd.Println("an Admin already exists; nothing to do")
			}
			return nil
		},
	}
}
