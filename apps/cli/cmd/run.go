package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/itemprobe/packages/core/config"
	ihttp "github.com/abdul-hamid-achik/itemprobe/packages/http"
	"github.com/abdul-hamid-achik/itemprobe/packages/items"
	"github.com/abdul-hamid-achik/itemprobe/packages/output"
	"github.com/abdul-hamid-achik/itemprobe/packages/smoke"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the smoke script against an items API",
	Long: `Run the CRUD smoke script against an /api/items endpoint.

The script probes the server, lists, creates, reads, updates and deletes
items, then checks that missing ids answer 404, malformed JSON answers 400
and unsupported methods answer 405.

Examples:
  itemprobe run
  itemprobe run --base-url http://localhost:5000/api/items
  itemprobe run --variant basic --bail
  itemprobe run --variant dated --date-format "dd.MM.yyyy HH:mm:ss.fff"
  itemprobe run -o junit --output-file report.xml
  itemprobe run -vv --rate 2`,
	Args: cobra.NoArgs,
	RunE: runCommand,
}

var (
	baseURLFlag         string
	variantFlag         string
	configFlag          string
	timeoutFlag         string
	rateFlag            float64
	bailFlag            bool
	outputFlag          string
	outputFileFlag      string
	noColorFlag         bool
	verboseFlag         int // 0=off, 1=-v, 2=-vv
	dateFormatFlag      string
	validateSchemaFlag  bool
	missingGetIDFlag    int
	missingDeleteIDFlag int
	pauseFlag           bool
)

func init() {
	// Target flags
	runCmd.Flags().StringVarP(&baseURLFlag, "base-url", "u", getEnvString("ITEMPROBE_BASE_URL", config.DefaultBaseURL), "Items collection URL (env: ITEMPROBE_BASE_URL)")
	runCmd.Flags().StringVar(&variantFlag, "variant", getEnvString("ITEMPROBE_VARIANT", config.DefaultVariant), "Payload variant: basic, vendor, dated (env: ITEMPROBE_VARIANT)")
	runCmd.Flags().StringVarP(&configFlag, "config", "c", getEnvString("ITEMPROBE_CONFIG", ""), "Path to config file (env: ITEMPROBE_CONFIG)")
	runCmd.Flags().StringVar(&dateFormatFlag, "date-format", getEnvString("ITEMPROBE_DATE_FORMAT", ""), "Date pattern for the dated variant, e.g. \"dd.MM.yyyy HH:mm:ss.fff\" (default RFC 3339) (env: ITEMPROBE_DATE_FORMAT)")
	runCmd.Flags().IntVar(&missingGetIDFlag, "missing-get-id", getEnvInt("ITEMPROBE_MISSING_GET_ID", config.DefaultMissingGetID), "Id read by the missing item step (env: ITEMPROBE_MISSING_GET_ID)")
	runCmd.Flags().IntVar(&missingDeleteIDFlag, "missing-delete-id", getEnvInt("ITEMPROBE_MISSING_DELETE_ID", config.DefaultMissingDeleteID), "Id deleted by the missing item step (env: ITEMPROBE_MISSING_DELETE_ID)")

	// Output flags
	runCmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (-v for statuses, -vv for request logs)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("ITEMPROBE_NO_COLOR", false), "Disable colored output (env: ITEMPROBE_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("ITEMPROBE_OUTPUT", config.DefaultOutput), "Output format: console, json, junit (env: ITEMPROBE_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("ITEMPROBE_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: ITEMPROBE_OUTPUT_FILE)")
	runCmd.Flags().BoolVar(&pauseFlag, "pause", getEnvBool("ITEMPROBE_PAUSE", false), "Wait for Enter before exiting (env: ITEMPROBE_PAUSE)")

	// Execution flags
	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("ITEMPROBE_BAIL", false), "Stop on first failed step (env: ITEMPROBE_BAIL)")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("ITEMPROBE_TIMEOUT", "0s"), "Request timeout (e.g., 5s, 500ms); 0 uses the transport default (env: ITEMPROBE_TIMEOUT)")
	runCmd.Flags().Float64VarP(&rateFlag, "rate", "r", getEnvFloat("ITEMPROBE_RATE", 0), "Requests per second; 0 disables pacing (env: ITEMPROBE_RATE)")
	runCmd.Flags().BoolVar(&validateSchemaFlag, "validate-schema", getEnvBool("ITEMPROBE_VALIDATE_SCHEMA", false), "Validate response bodies against the item JSON schemas (env: ITEMPROBE_VALIDATE_SCHEMA)")

	// Shell completion for enumerated flags
	_ = runCmd.RegisterFlagCompletionFunc("variant", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(smoke.Variants))
		for i, v := range smoke.Variants {
			names[i] = string(v)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	_ = runCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.Formats, cobra.ShellCompDirectiveNoFileComp
	})
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func runCommand(cmd *cobra.Command, args []string) error {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return exitErrorf(ExitConfigError, "loading config: %w", err)
	}

	cfg, err := resolveConfig(cmd, fileConfig)
	if err != nil {
		return err
	}

	// Setup output writer
	var outWriter io.Writer = cmd.OutOrStdout()
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return exitErrorf(ExitConfigError, "cannot create output file: %w", err)
		}
		defer f.Close()
		outWriter = f
	}

	formatter, err := output.New(strings.ToLower(cfg.Output), outWriter, verboseFlag > 0 || cfg.GetVerbose(), cfg.GetNoColor())
	if err != nil {
		return exitErrorf(ExitUsageError, "%w", err)
	}

	// fail routes run-level errors through the formatter so JSON and JUnit
	// reports carry them too.
	startTime := time.Now()
	fail := func(code int, err error) error {
		formatter.FormatError(err)
		if flushable, ok := formatter.(output.Flushable); ok {
			_ = flushable.Flush(time.Since(startTime))
		}
		return &exitError{code: code, err: err}
	}

	variant, err := smoke.ParseVariant(cfg.Variant)
	if err != nil {
		return fail(ExitUsageError, err)
	}
	if err := ihttp.ValidateURL(cfg.BaseURL); err != nil {
		return fail(ExitUsageError, fmt.Errorf("--base-url: %w", err))
	}
	if cfg.MissingGetID < 1 || cfg.MissingDeleteID < 1 {
		return fail(ExitUsageError, fmt.Errorf("missing item ids must be positive (get %d, delete %d)", cfg.MissingGetID, cfg.MissingDeleteID))
	}
	codec, err := items.NewCodec(cfg.DateFormat)
	if err != nil {
		return fail(ExitConfigError, err)
	}

	formatter.FormatHeader(version)

	logger := newLogger(cmd.ErrOrStderr(), verboseFlag, cfg.GetNoColor())
	httpClient := ihttp.NewClient(
		ihttp.WithTimeout(time.Duration(cfg.GetTimeout())*time.Millisecond),
		ihttp.WithDefaultHeader("User-Agent", "itemprobe/"+version),
		ihttp.WithDefaultHeaders(cfg.Headers),
		ihttp.WithLogger(logger),
	)
	client := items.NewClient(cfg.BaseURL, httpClient,
		items.WithCodec(codec),
		items.WithSchemaValidation(cfg.GetValidateSchema()),
	)

	r := smoke.NewRunner(client, &smoke.Config{
		Variant:         variant,
		MissingGetID:    cfg.MissingGetID,
		MissingDeleteID: cfg.MissingDeleteID,
		Bail:            cfg.GetBail(),
		Rate:            cfg.GetRate(),
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("base_url", cfg.BaseURL).WithField("variant", variant).Debug("starting run")
	result, err := r.Run(ctx)
	if err != nil {
		return fail(ExitTestFailure, err)
	}
	formatter.FormatResult(result)

	// Flush output for formatters that accumulate results
	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(time.Since(startTime)); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}

	if pauseFlag {
		waitForEnter(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	switch {
	case result.Aborted:
		return &exitError{code: ExitNetworkError}
	case !result.Success():
		return &exitError{code: ExitTestFailure}
	}
	return nil
}

// resolveConfig layers environment variables and explicitly set flags over
// the file configuration.
func resolveConfig(cmd *cobra.Command, fileConfig *config.Config) (*config.Config, error) {
	set := func(flag, env string) bool {
		return cmd.Flags().Changed(flag) || os.Getenv(env) != ""
	}

	overrides := &config.Config{}
	if set("base-url", "ITEMPROBE_BASE_URL") {
		overrides.BaseURL = baseURLFlag
	}
	if set("variant", "ITEMPROBE_VARIANT") {
		overrides.Variant = variantFlag
	}
	if set("date-format", "ITEMPROBE_DATE_FORMAT") {
		overrides.DateFormat = dateFormatFlag
	}
	if set("missing-get-id", "ITEMPROBE_MISSING_GET_ID") {
		if missingGetIDFlag < 1 {
			return nil, exitErrorf(ExitUsageError, "--missing-get-id must be positive")
		}
		overrides.MissingGetID = missingGetIDFlag
	}
	if set("missing-delete-id", "ITEMPROBE_MISSING_DELETE_ID") {
		if missingDeleteIDFlag < 1 {
			return nil, exitErrorf(ExitUsageError, "--missing-delete-id must be positive")
		}
		overrides.MissingDeleteID = missingDeleteIDFlag
	}
	if set("output", "ITEMPROBE_OUTPUT") {
		overrides.Output = outputFlag
	}
	if set("output-file", "ITEMPROBE_OUTPUT_FILE") {
		overrides.OutputFile = outputFileFlag
	}
	if set("rate", "ITEMPROBE_RATE") {
		if rateFlag < 0 {
			return nil, exitErrorf(ExitUsageError, "--rate must not be negative")
		}
		overrides.Rate = config.FloatPtr(rateFlag)
	}
	if set("timeout", "ITEMPROBE_TIMEOUT") {
		timeout, err := time.ParseDuration(timeoutFlag)
		if err != nil || timeout < 0 {
			return nil, exitErrorf(ExitUsageError, "invalid timeout value %q (use format like 5s, 1m, 500ms)", timeoutFlag)
		}
		overrides.Timeout = config.IntPtr(int(timeout.Milliseconds()))
	}
	if set("bail", "ITEMPROBE_BAIL") {
		overrides.Bail = config.BoolPtr(bailFlag)
	}
	if set("no-color", "ITEMPROBE_NO_COLOR") {
		overrides.NoColor = config.BoolPtr(noColorFlag)
	}
	if set("validate-schema", "ITEMPROBE_VALIDATE_SCHEMA") {
		overrides.ValidateSchema = config.BoolPtr(validateSchemaFlag)
	}

	return fileConfig.Merge(overrides), nil
}

func waitForEnter(in io.Reader, out io.Writer) {
	fmt.Fprint(out, "Press Enter to exit...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
