package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logCount int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent catalog actions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		events, err := env.audit.Recent(cmd.Context(), logCount)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No recorded actions.")
			return nil
		}
		for _, ev := range events {
			line := fmt.Sprintf("%s  %-10s %s", ev.Time.Format("2006-01-02 15:04:05"), ev.Action, ev.Subject)
			if ev.Detail != "" {
				line += dimStyle.Render("  (" + ev.Detail + ")")
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logCount, "count", "n", 20, "number of events to show")
	rootCmd.AddCommand(logCmd)
}
