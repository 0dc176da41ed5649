package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tasks with their descriptions",
	Run: func(cmd *cobra.Command, args []string) {
		printTaskListing(os.Stdout)
	},
}
