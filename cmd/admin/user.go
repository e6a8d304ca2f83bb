package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"go-gin-taskhub/internal/domain"
)

func NewUserCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserCreateCmd(f))
	return cmd
}

func newUserCreateCmd(f *rootFlags) *cobra.Command {
	var name, email, password, role string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, release, err := f.build()
			if err != nil {
				return err
			}
			defer release()
			u, err := a.Users.Create(cmd.Context(), domain.User{Name: name, Email: email, Role: domain.Role(role)}, password)
			if err != nil {
				return err
			}
			out, err := json.Marshal(u)
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleEmployee), "Admin, Supervisor or Employee")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
