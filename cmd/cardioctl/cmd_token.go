package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bibbank/cardiorisk/pkg/auth"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		tenant, user, secret string
		roles                []string
		ttl                  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed development token",
		Long: `Signs a token with the shared HMAC secret, taken from --secret or
JWT_SECRET. Only meant for development and testing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := parseTenant(tenant)
			if err != nil {
				return err
			}
			userID := uuid.New()
			if user != "" {
				if userID, err = uuid.Parse(user); err != nil {
					return fmt.Errorf("--user must be a UUID")
				}
			}
			if secret == "" {
				secret = a.cfg.Auth.JWTSecret
			}
			if secret == "" {
				return fmt.Errorf("a signing secret is required (--secret or JWT_SECRET)")
			}

			svc, err := auth.NewJWTService(auth.JWTConfig{
				Secret:     secret,
				Issuer:     a.cfg.Auth.Issuer,
				Expiration: ttl,
			})
			if err != nil {
				return err
			}
			token, err := svc.GenerateToken(userID, tenantID, roles)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", token)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&tenant, "tenant", "", "tenant UUID carried by the token")
	f.StringVar(&user, "user", "", "user UUID (random when empty)")
	f.StringVar(&secret, "secret", "", "HMAC signing secret (default JWT_SECRET)")
	f.StringSliceVar(&roles, "roles", []string{auth.RoleClinician}, "roles granted by the token")
	f.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}
