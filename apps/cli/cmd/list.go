package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/itemprobe/packages/smoke"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the steps of the smoke script",
	Long: `List the steps run by 'itemprobe run', in order.

Examples:
  itemprobe list`,
	Args: cobra.NoArgs,
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	for i, name := range smoke.StepNames() {
		fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, name)
	}
	return nil
}
