package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/templui/picture-gallery/internal/config"
	"github.com/templui/picture-gallery/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	cmd.AddCommand(migrateStatusCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, connection := config.LoadDatabase()
			database, err := db.Init(cmd.Context(), driver, connection)
			if err != nil {
				return err
			}
			defer database.Close()

			return db.RunMigrations(cmd.Context(), database.DB, driver)
		},
	}
}

func migrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, connection := config.LoadDatabase()
			database, err := db.Init(cmd.Context(), driver, connection)
			if err != nil {
				return err
			}
			defer database.Close()

			return db.MigrateDown(cmd.Context(), database.DB, driver)
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which migrations are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, connection := config.LoadDatabase()
			database, err := db.Init(cmd.Context(), driver, connection)
			if err != nil {
				return err
			}
			defer database.Close()

			status, err := db.MigrationStatus(cmd.Context(), database.DB, driver)
			if err != nil {
				return err
			}

			versions := make([]int64, 0, len(status))
			for v := range status {
				versions = append(versions, v)
			}
			sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })

			for _, v := range versions {
				state := "pending"
				if status[v] {
					state = "applied"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%05d  %s\n", v, state)
			}
			return nil
		},
	}
}
