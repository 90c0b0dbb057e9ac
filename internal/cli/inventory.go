package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "List every product with its image count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		products, err := env.svc.Inventory(cmd.Context())
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println("Catalog is empty.")
			return nil
		}
		fmt.Println(headingStyle.Render(fmt.Sprintf("%-6s %-24s %10s %8s %8s", "ID", "NAME", "PRICE", "STOCK", "IMAGES")))
		for _, p := range products {
			fmt.Printf("%-6d %-24s %10.2f %8d %8d\n", p.ID, p.Name, p.Price, p.Amount, p.ImageCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
}
