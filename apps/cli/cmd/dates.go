package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/itemprobe/packages/datefmt"
)

var datesFormatFlag string

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "Show how dated items are serialized",
	Long: `Serialize an event with a date and a millisecond timestamp using a
.NET-style date pattern, decode it back and print the current time in the
same pattern.

Examples:
  itemprobe dates
  itemprobe dates --format "yyyy-MM-dd'T'HH:mm:ss"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := datefmt.Demo(cmd.OutOrStdout(), time.Now(), datesFormatFlag); err != nil {
			return exitErrorf(ExitUsageError, "%w", err)
		}
		return nil
	},
}

func init() {
	datesCmd.Flags().StringVarP(&datesFormatFlag, "format", "f", getEnvString("ITEMPROBE_DATE_FORMAT", datefmt.DemoPattern), "Date pattern (env: ITEMPROBE_DATE_FORMAT)")
}
