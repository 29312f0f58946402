package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Kariqs/shopfront-api/initializers"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "shopfront-api",
	Short: "E-commerce REST API",
	Long: `Shopfront API serves the product catalog, categories and account
management for the storefront, and ships maintenance commands for seeding and
importing the catalog.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (optional)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importProductsCmd)
	rootCmd.AddCommand(createAdminCmd)
}

// bootstrap loads configuration, builds the logger and opens a migrated database.
func bootstrap() (*initializers.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := initializers.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := initializers.NewLogger(cfg)
	slog.SetDefault(logger)

	db, err := initializers.ConnectToDB(cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := initializers.SyncDatabase(db); err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}
