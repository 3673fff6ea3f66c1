package main

import (
	"Book_Club/internal/repository/sqldb"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update all tables and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer sqldb.Close(db)

			if err := sqldb.Migrate(db); err != nil {
				return err
			}
			log.WithField("driver", cfg.DB.Driver).Info("migration complete")
			return nil
		},
	}
}
