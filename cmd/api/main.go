package main

import (
	"fmt"
	"os"

	"Book_Club/internal/config"
	"Book_Club/internal/pkg"
	"Book_Club/internal/repository/sqldb"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:           "bookclub",
		Short:         "Book club backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config (defaults to $CONFIG_PATH)")
	root.AddCommand(newServeCmd(), newMigrateCmd(), newUserCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads config and opens the database. Callers close the DB.
func bootstrap() (*config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}
	log := pkg.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stdout)

	db, err := sqldb.Open(cfg.DB.Driver, cfg.DB.DSN, pkg.GormLogger(log))
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}
