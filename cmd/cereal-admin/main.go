// Package main is the entrypoint for the Cereal operator CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/cerealdev/cereal/internal/auth"
	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cereal-admin",
		Short: "Cereal server administration",
		Long: `cereal-admin manages a Cereal server directly through its database.

Set DATABASE_URL (or pass --db) to the server's Postgres connection string.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("db", "", "Database URL (or set DATABASE_URL env var)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newAPIKeyCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Cereal Admin %s\n", Version)
			fmt.Printf("  Commit:     %s\n", Commit)
			fmt.Printf("  Built:      %s\n", BuildDate)
			fmt.Printf("  Go version: %s\n", runtime.Version())
			fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage admin API keys",
	}

	cmd.AddCommand(
		newAPIKeyCreateCmd(),
		newAPIKeyListCmd(),
		newAPIKeyRevokeCmd(),
	)

	return cmd
}

func newAPIKeyCreateCmd() *cobra.Command {
	var (
		name    string
		expires time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin API key",
		Long: `Create a new admin API key.

The plaintext key is printed exactly once; only its hash is stored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := connect(cmd)
			if err != nil {
				return err
			}
			defer database.Close()

			raw, hash, err := auth.GenerateAPIKey()
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}

			key := &models.APIKey{
				KeyHash:   hash,
				CreatedAt: time.Now(),
			}
			if name != "" {
				key.Name = &name
			}
			if expires > 0 {
				exp := time.Now().Add(expires)
				key.ExpirationDate = &exp
			}

			if err := database.CreateAPIKey(cmd.Context(), key); err != nil {
				return fmt.Errorf("store key: %w", err)
			}

			fmt.Println("API key created. Store it now; it will not be shown again.")
			fmt.Printf("\n  %s\n\n", raw)
			fmt.Printf("  Hash:    %s\n", hash)
			if key.Name != nil {
				fmt.Printf("  Name:    %s\n", *key.Name)
			}
			if key.ExpirationDate != nil {
				fmt.Printf("  Expires: %s\n", key.ExpirationDate.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Human-readable key name")
	cmd.Flags().DurationVar(&expires, "expires", 0, "Key lifetime (e.g. 720h); 0 means no expiration")

	return cmd
}

func newAPIKeyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := connect(cmd)
			if err != nil {
				return err
			}
			defer database.Close()

			keys, err := database.ListAPIKeys(cmd.Context())
			if err != nil {
				return fmt.Errorf("list keys: %w", err)
			}

			if len(keys) == 0 {
				fmt.Println("No API keys found")
				return nil
			}

			for _, k := range keys {
				name := "-"
				if k.Name != nil {
					name = *k.Name
				}
				expires := "never"
				if k.ExpirationDate != nil {
					expires = k.ExpirationDate.Format(time.RFC3339)
				}
				fmt.Printf("%s  name=%s  created=%s  expires=%s\n",
					k.KeyHash, name, k.CreatedAt.Format(time.RFC3339), expires)
			}
			return nil
		},
	}
}

func newAPIKeyRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <hash>",
		Short: "Revoke an API key by its hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := connect(cmd)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.DeleteAPIKeyByHash(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("revoke key: %w", err)
			}

			fmt.Println("API key revoked")
			return nil
		},
	}
}

func connect(cmd *cobra.Command) (*db.DB, error) {
	url, _ := cmd.Flags().GetString("db")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("database URL required: use --db or set DATABASE_URL")
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	cfg := db.DefaultConfig(url)
	cfg.MaxConns = 2
	cfg.MinConns = 1

	database, err := db.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return database, nil
}
