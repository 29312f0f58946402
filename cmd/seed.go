package cmd

import (
	"time"

	"github.com/Kariqs/shopfront-api/services"
	"github.com/spf13/cobra"
)

var seedValue uint64

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the catalog with demo categories and products",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := bootstrap()
		if err != nil {
			return err
		}

		if seedValue == 0 {
			seedValue = uint64(time.Now().UnixNano())
		}
		result, err := services.NewSeeder(db, seedValue).Seed(cmd.Context())
		if err != nil {
			return err
		}

		logger.Info("catalog seeded", "categories", result.Categories, "products", result.Products)
		return nil
	},
}

func init() {
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0, "Random seed for generated values (default: current time)")
}
