package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/itemprobe/packages/core/config"
)

var (
	forceInit bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example itemprobe.yaml",
	Long: `Create an example itemprobe.yaml in the current directory.

Every key is optional; flags and ITEMPROBE_* environment variables
override the file.

Examples:
  itemprobe init
  itemprobe init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to write the config file to")
}

const initHeader = `# itemprobe configuration
# Precedence: defaults < this file < ITEMPROBE_* environment < flags.
# timeout is in milliseconds (0 = transport default); rate is requests per
# second (0 = no pacing).
`

func initCommand(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(initDir)
	if err != nil {
		return err
	}

	configFile := filepath.Join(dir, config.ConfigFilenames[0])
	if !forceInit {
		if _, err := os.Stat(configFile); err == nil {
			return exitErrorf(ExitUsageError, "file already exists: %s (use --force to overwrite)", configFile)
		}
	}

	example := config.DefaultConfig()
	example.Timeout = config.IntPtr(5000)
	example.DateFormat = "dd.MM.yyyy HH:mm:ss.fff"
	example.Headers = map[string]string{
		"Accept-Language": "ru-RU",
	}

	configYAML, err := yaml.Marshal(example)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFile, append([]byte(initHeader), configYAML...), 0644); err != nil {
		return exitErrorf(ExitConfigError, "failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nRun 'itemprobe run' to smoke test %s.\n", example.BaseURL)
	return nil
}
