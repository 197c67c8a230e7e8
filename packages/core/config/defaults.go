package config

const (
	DefaultBaseURL         = "http://127.0.0.1:8080/api/items"
	DefaultVariant         = "dated"
	DefaultOutput          = "console"
	DefaultMissingGetID    = 88
	DefaultMissingDeleteID = 77
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		Variant:         DefaultVariant,
		Timeout:         nil, // transport default
		Rate:            nil,
		DateFormat:      "",
		Headers:         nil,
		Output:          DefaultOutput,
		OutputFile:      "",
		MissingGetID:    DefaultMissingGetID,
		MissingDeleteID: DefaultMissingDeleteID,
		Bail:            BoolPtr(false),
		ValidateSchema:  BoolPtr(false),
		Verbose:         BoolPtr(false),
		NoColor:         BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.BaseURL == defaults.BaseURL &&
		c.Variant == defaults.Variant &&
		c.GetTimeout() == defaults.GetTimeout() &&
		c.GetRate() == defaults.GetRate() &&
		c.DateFormat == defaults.DateFormat &&
		len(c.Headers) == 0 &&
		c.Output == defaults.Output &&
		c.OutputFile == defaults.OutputFile &&
		c.MissingGetID == defaults.MissingGetID &&
		c.MissingDeleteID == defaults.MissingDeleteID &&
		c.GetBail() == defaults.GetBail() &&
		c.GetValidateSchema() == defaults.GetValidateSchema() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor()
}
