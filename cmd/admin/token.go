package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"go-gin-taskhub/internal/core/auth"
)

func NewTokenCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect access tokens",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "inspect <token>",
		Short: "Verify a token with the configured secret and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			j := &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL()}
			claims, err := j.Parse(args[0])
			if err != nil {
				return err
			}
			uid, err := claims.UserID()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(struct {
				UserID    uint      `json:"userId"`
				Name      string    `json:"name"`
				Email     string    `json:"email"`
				Role      string    `json:"role"`
				IssuedAt  time.Time `json:"issuedAt"`
				ExpiresAt time.Time `json:"expiresAt"`
			}{uid, claims.Name, claims.Email, string(claims.Role), claims.IssuedAt.Time, claims.ExpiresAt.Time}, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	})
	return cmd
}
