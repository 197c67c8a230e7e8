package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/itemprobe/packages/core/config"
	ihttp "github.com/abdul-hamid-achik/itemprobe/packages/http"
	"github.com/abdul-hamid-achik/itemprobe/packages/items"
	"github.com/abdul-hamid-achik/itemprobe/packages/output"
	"github.com/abdul-hamid-achik/itemprobe/packages/smoke"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate an itemprobe config file",
	Long: `Validate an itemprobe config file without running the script. Without
an argument the config file in the current directory is checked.

Examples:
  itemprobe validate
  itemprobe validate ci/itemprobe.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return exitErrorf(ExitConfigError, "%w", err)
	}

	if problems := validateConfig(cfg); len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
		}
		return exitErrorf(ExitConfigError, "validation failed")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s [%s]\n", cfg.BaseURL, cfg.Variant)
	return nil
}

func validateConfig(cfg *config.Config) []string {
	var problems []string
	if err := ihttp.ValidateURL(cfg.BaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("baseUrl: %v", err))
	}
	if _, err := smoke.ParseVariant(cfg.Variant); err != nil {
		problems = append(problems, fmt.Sprintf("variant: %v", err))
	}
	if _, err := items.NewCodec(cfg.DateFormat); err != nil {
		problems = append(problems, fmt.Sprintf("dateFormat: %v", err))
	}
	if !slices.Contains(output.Formats, strings.ToLower(cfg.Output)) {
		problems = append(problems, fmt.Sprintf("output: unknown format %q", cfg.Output))
	}
	if cfg.GetTimeout() < 0 {
		problems = append(problems, "timeout: must not be negative")
	}
	if cfg.GetRate() < 0 {
		problems = append(problems, "rate: must not be negative")
	}
	if cfg.MissingGetID < 1 {
		problems = append(problems, "missingGetId: must be positive")
	}
	if cfg.MissingDeleteID < 1 {
		problems = append(problems, "missingDeleteId: must be positive")
	}
	return problems
}
