package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the catalog database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.store.Init(cmd.Context()); err != nil {
			return err
		}
		dir := env.cfg.Store.Dir
		if dbDir != "" {
			dir = dbDir
		}
		fmt.Printf("Catalog database ready at %s\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
