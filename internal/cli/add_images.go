package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	attachProductID uint64
	attachImages    []string
)

var addImagesCmd = &cobra.Command{
	Use:   "add-images",
	Short: "Attach images to an existing product",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if attachProductID == 0 || len(attachImages) == 0 {
			return fmt.Errorf("--product-id and at least one --image are required")
		}
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.svc.AddImages(cmd.Context(), attachProductID, attachImages); err != nil {
			return err
		}
		fmt.Printf("Added %d image(s) to product %d\n", len(attachImages), attachProductID)
		return nil
	},
}

func init() {
	addImagesCmd.Flags().Uint64Var(&attachProductID, "product-id", 0, "target product id")
	addImagesCmd.Flags().StringArrayVar(&attachImages, "image", nil, "image file (repeatable)")
	rootCmd.AddCommand(addImagesCmd)
}
