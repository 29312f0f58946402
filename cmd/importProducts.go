package cmd

import (
	"fmt"
	"os"

	"github.com/Kariqs/shopfront-api/services"
	"github.com/spf13/cobra"
)

var importProductsCmd = &cobra.Command{
	Use:   "import-products <file.xlsx>",
	Short: "Import products from the first sheet of an xlsx workbook",
	Long: `Import products from an xlsx workbook. The first row names the columns:
name, price and category are required; description, originalPrice, stock,
featured and image are optional. Unknown categories are created.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, err := bootstrap()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		categories := services.NewCategoryService(db, nil, cfg.CategoryCacheTTL, logger)
		result, err := services.NewProductImporter(db, categories).Import(cmd.Context(), f)
		if err != nil {
			return err
		}

		for _, rowErr := range result.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "row %d: %s\n", rowErr.Row, rowErr.Message)
		}
		logger.Info("products imported",
			"file", args[0],
			"created", result.Created,
			"skipped", result.Skipped,
			"categories_created", result.CategoriesCreated,
		)
		return nil
	},
}
