package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	updateProductID uint64
	updatePrice     float64
	updateAmount    int64
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a product's price or stock count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if updateProductID == 0 {
			return fmt.Errorf("--product-id is required")
		}
		var price *float64
		var amount *int64
		if cmd.Flags().Changed("price") {
			price = &updatePrice
		}
		if cmd.Flags().Changed("amount") {
			amount = &updateAmount
		}
		if price == nil && amount == nil {
			return fmt.Errorf("nothing to update: pass --price and/or --amount")
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.svc.UpdateProduct(cmd.Context(), updateProductID, price, amount); err != nil {
			return err
		}
		fmt.Printf("Product %d updated\n", updateProductID)
		return nil
	},
}

func init() {
	updateCmd.Flags().Uint64Var(&updateProductID, "product-id", 0, "target product id")
	updateCmd.Flags().Float64Var(&updatePrice, "price", 0, "new price")
	updateCmd.Flags().Int64Var(&updateAmount, "amount", 0, "new stock count")
	rootCmd.AddCommand(updateCmd)
}
