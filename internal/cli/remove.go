package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeProductID uint64

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a product and all its images",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if removeProductID == 0 {
			return fmt.Errorf("--product-id is required")
		}
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.svc.RemoveProduct(cmd.Context(), removeProductID); err != nil {
			return err
		}
		fmt.Printf("Product %d removed\n", removeProductID)
		return nil
	},
}

func init() {
	removeCmd.Flags().Uint64Var(&removeProductID, "product-id", 0, "target product id")
	rootCmd.AddCommand(removeCmd)
}
