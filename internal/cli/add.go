package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addName   string
	addPrice  float64
	addAmount int64
	addImages []string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product with one or more images",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addName == "" || len(addImages) == 0 {
			return fmt.Errorf("--name and at least one --image are required")
		}
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		id, err := env.svc.CreateProduct(cmd.Context(), addName, addPrice, addAmount, addImages)
		if err != nil {
			return err
		}
		fmt.Printf("Product %q added with id %d (%d in stock, %d images)\n", addName, id, addAmount, len(addImages))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addName, "name", "", "product name")
	addCmd.Flags().Float64Var(&addPrice, "price", 0, "product price")
	addCmd.Flags().Int64Var(&addAmount, "amount", 0, "stock count")
	addCmd.Flags().StringArrayVar(&addImages, "image", nil, "image file (repeatable)")
	rootCmd.AddCommand(addCmd)
}
