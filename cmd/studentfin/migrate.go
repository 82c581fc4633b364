package main

import (
	"fmt"

	"github.com/spf13/cobra"

	applog "studentfin/internal/log"
	"studentfin/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQLite schema",
		Long:  "Apply, roll back or inspect the embedded SQLite migrations at SQLITE_DB_PATH.",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := requireSQLite(); err != nil {
					return err
				}
				if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
					return err
				}
				logger.WithComponent(applog.ComponentStorage).Info("Migrations applied", "db_path", cfg.SQLiteDBPath)
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := requireSQLite(); err != nil {
					return err
				}
				if err := storage.RollbackMigrations(cfg.SQLiteDBPath); err != nil {
					return err
				}
				logger.WithComponent(applog.ComponentStorage).Warn("Migrations rolled back", "db_path", cfg.SQLiteDBPath)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := requireSQLite(); err != nil {
					return err
				}
				st, err := storage.GetMigrationStatus(cfg.SQLiteDBPath)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if st.Empty {
					fmt.Fprintln(out, "No migrations applied")
					return nil
				}
				fmt.Fprintf(out, "Version: %d\nDirty:   %t\n", st.Version, st.Dirty)
				return nil
			},
		},
	)
	return cmd
}

func requireSQLite() error {
	if cfg.DataBackend != "sqlite" {
		return fmt.Errorf("migrate only applies to the sqlite backend (DATA_BACKEND=%s)", cfg.DataBackend)
	}
	return nil
}
