// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command admin is the operator tool of the bookshelf admin API.
//
//	admin token mint --user u1 --role editor --ttl 8h
//	admin migrate up
//
// Settings come from the same environment variables as the API server; flags
// override them.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/migration"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

// settings is the subset of the server configuration the tool needs.
type settings struct {
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationPath  string `env:"MIGRATION_PATH"       envDefault:"./data/migrations"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"`
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With(slog.String("app", constants.AppName+"-cli"))

	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	cfg := settings{}
	if err := env.Parse(&cfg); err != nil {
		log.Error("config_parse_failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := newRootCommand(&cfg, log).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(cfg *settings, log *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Operate the bookshelf admin API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newTokenCommand(cfg), newMigrateCommand(cfg, log))
	return root
}

// # token

func newTokenCommand(cfg *settings) *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Manage workbench access tokens",
	}

	var (
		userID   string
		username string
		role     string
		ttl      time.Duration
	)

	mint := &cobra.Command{
		Use:   "mint",
		Short: "Sign an access token for a back-office user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch sec.UserRole(role) {
			case sec.RoleAdmin, sec.RoleEditor, sec.RoleViewer:
			default:
				return fmt.Errorf("unknown role %q", role)
			}

			tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
			if err != nil {
				return err
			}

			signed, err := tokens.GenerateAccessToken(userID, username, role, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	mint.Flags().StringVar(&userID, "user", "", "user id carried in the token")
	mint.Flags().StringVar(&username, "name", "", "display name carried in the token")
	mint.Flags().StringVar(&role, "role", string(sec.RoleEditor), "admin, editor or viewer")
	mint.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "token lifetime")
	mint.Flags().StringVar(&cfg.JWTPrivKeyPath, "private-key", cfg.JWTPrivKeyPath, "RSA private key (PEM)")
	mint.Flags().StringVar(&cfg.JWTPubKeyPath, "public-key", cfg.JWTPubKeyPath, "RSA public key (PEM)")
	_ = mint.MarkFlagRequired("user")

	token.AddCommand(mint)
	return token
}

// # migrate

func newMigrateCommand(cfg *settings, log *slog.Logger) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the catalogue schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(_ *cobra.Command, _ []string) error {
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL or --database-url is required")
			}
			return migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log)
		},
	}

	up.Flags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "PostgreSQL connection string")
	up.Flags().StringVar(&cfg.MigrationPath, "path", cfg.MigrationPath, "migrations directory")

	migrate.AddCommand(up)
	return migrate
}
