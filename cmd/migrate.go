/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"

	"github.com/Nikhil88689/Showbay/internal/api"
	"github.com/Nikhil88689/Showbay/internal/config"
	"github.com/Nikhil88689/Showbay/internal/database"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run database migrations to create or update the tasks table.
This command will:
- Create the tasks table if it doesn't exist
- Add missing columns if the schema changed
- Create indexes used by the list endpoint

The command uses the database configuration from the config file or environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := api.GetLogger()

		// 1. 加载配置
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// 2. 连接数据库
		logger.WithField("driver", database.Dialector(cfg.Database).Name()).Info("Connecting to database")
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		defer func() { _ = database.Close(db) }()

		// 3. 执行迁移
		logger.Info("Running database migrations")
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		logger.Info("Database migrations completed successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
