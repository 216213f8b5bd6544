package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/yoockh/gigmatch/config"
	"github.com/yoockh/gigmatch/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the postgres schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(os.Getenv("LOG_LEVEL"))
		if err := config.InitPostgres(log); err != nil {
			return err
		}
		if err := config.Migrate(config.PostgresDB); err != nil {
			return err
		}
		log.Info("schema migrated")
		return nil
	},
}
