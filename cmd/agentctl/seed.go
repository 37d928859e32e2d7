package main

import (
	"fmt"
	"os"

	"okada-agent-be/internal/config"
	"okada-agent-be/internal/repository/unitofwork"
	"okada-agent-be/internal/workflow/recommendation"

	"github.com/spf13/cobra"
)

func newSeedPropertiesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed-properties",
		Short: "Replace the property catalog with the rows of a listing CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer f.Close()

			properties, err := recommendation.ParseCatalog(f)
			if err != nil {
				return err
			}

			db, err := openDatabase(config.Load())
			if err != nil {
				return err
			}
			if err := recommendation.ImportCatalog(cmd.Context(), unitofwork.NewRepositoryFactory(db), properties); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d properties from %s\n", len(properties), file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "data/properties.csv", "path to the listing CSV")
	return cmd
}
