package main

import (
	"fmt"
	"os"

	"okada-agent-be/internal/config"
	"okada-agent-be/internal/model"
	"okada-agent-be/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "agentctl",
		Short:         "Operator tooling for the assistant backend",
		Long:          "agentctl migrates the schema, loads the property catalog, indexes session files and runs a terminal chat.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSeedPropertiesCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newChatCmd())
	return cmd
}

// openDatabase connects with the environment configuration and migrates the
// schema so every subcommand sees the current tables.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Connection, cfg.Database.Debug)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Database.Driver, err)
	}
	if err := database.EnableExtensions(db); err != nil {
		return nil, fmt.Errorf("enable extensions: %w", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if _, err := openDatabase(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s)\n", cfg.Database.Driver)
			return nil
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
