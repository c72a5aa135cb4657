package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/dotcommander/zodkit/internal/baseline"
	"github.com/dotcommander/zodkit/internal/cue"
	"github.com/dotcommander/zodkit/internal/rules"
	"github.com/dotcommander/zodkit/internal/types"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigFiles are the config file names looked up, in priority order.
var ConfigFiles = []string{".zodkitrc.json", ".zodkitrc.yaml", ".zodkitrc.yml"}

// DefaultInclude matches JS and TS sources.
var DefaultInclude = []string{"**/*.{ts,tsx,mts,cts,js,jsx,mjs,cjs}"}

// DefaultExclude skips dependencies, build output and declaration files.
var DefaultExclude = []string{"**/node_modules/**", "**/dist/**", "**/build/**", "**/.git/**", "**/*.d.ts"}

// Config represents the zodkit configuration
type Config struct {
	Root           string         `mapstructure:"root" json:"root"`
	Include        []string       `mapstructure:"include" json:"include"`
	Exclude        []string       `mapstructure:"exclude" json:"exclude"`
	FollowSymlinks bool           `mapstructure:"followSymlinks" json:"followSymlinks"`
	Format         string         `mapstructure:"format" json:"format"`
	Output         string         `mapstructure:"output" json:"output"`
	FailOn         string         `mapstructure:"failOn" json:"failOn"`
	Quiet          bool           `mapstructure:"quiet" json:"quiet"`
	Verbose        bool           `mapstructure:"verbose" json:"verbose"`
	Concurrency    int            `mapstructure:"concurrency" json:"concurrency"`
	Rules          RulesConfig    `mapstructure:"rules" json:"rules"`
	Baseline       BaselineConfig `mapstructure:"baseline" json:"baseline"`
}

// RulesConfig selects and tunes rules
type RulesConfig struct {
	Enable    []string          `mapstructure:"enable" json:"enable"`
	Disable   []string          `mapstructure:"disable" json:"disable"`
	Severity  map[string]string `mapstructure:"severity" json:"severity"`
	MaxFields int               `mapstructure:"maxFields" json:"maxFields"`
	MaxDepth  int               `mapstructure:"maxDepth" json:"maxDepth"`
}

// BaselineConfig locates the baseline file
type BaselineConfig struct {
	Path string `mapstructure:"path" json:"path"`
}

// FailOnSeverity returns the configured failure threshold.
func (c *Config) FailOnSeverity() types.Severity {
	sev, err := types.ParseSeverity(c.FailOn)
	if err != nil {
		return types.SeverityError
	}
	return sev
}

// RuleOptions returns the thresholds for the built-in rules.
func (c *Config) RuleOptions() rules.Options {
	return rules.Options{MaxFields: c.Rules.MaxFields, MaxDepth: c.Rules.MaxDepth}
}

// setDefaults registers default values with viper.
func setDefaults() {
	def := rules.DefaultOptions()
	viper.SetDefault("root", ".")
	viper.SetDefault("include", DefaultInclude)
	viper.SetDefault("exclude", DefaultExclude)
	viper.SetDefault("followSymlinks", false)
	viper.SetDefault("format", "console")
	viper.SetDefault("output", "")
	viper.SetDefault("failOn", "error")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("concurrency", runtime.GOMAXPROCS(0))
	viper.SetDefault("rules.maxFields", def.MaxFields)
	viper.SetDefault("rules.maxDepth", def.MaxDepth)
	viper.SetDefault("baseline.path", baseline.DefaultFile)
}

// LoadConfig loads configuration from defaults, the first config file found
// in rootPath (the working directory when empty), and ZODKIT_* environment
// variables.
func LoadConfig(rootPath string) (*Config, error) {
	setDefaults()

	base := rootPath
	if base == "" {
		base = "."
	}
	for _, name := range ConfigFiles {
		viper.SetConfigFile(filepath.Join(base, name))
		if err := viper.ReadInConfig(); err == nil {
			break
		}
	}

	viper.SetEnvPrefix("ZODKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if rootPath != "" {
		config.Root = rootPath
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration: first the cross-field checks
// the schema cannot express, then the embedded CUE schema.
func validateConfig(config *Config) error {
	if config.Format != "console" && config.Format != "json" && config.Format != "markdown" && config.Format != "yaml" {
		return fmt.Errorf("%w: invalid format: %s. Must be 'console', 'json', 'markdown' or 'yaml'", ErrInvalidConfig, config.Format)
	}

	if _, err := types.ParseSeverity(config.FailOn); err != nil {
		return fmt.Errorf("%w: invalid fail-on level: %s. Must be 'error', 'warning' or 'info'", ErrInvalidConfig, config.FailOn)
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1", ErrInvalidConfig)
	}

	disabled := make(map[string]bool, len(config.Rules.Disable))
	for _, id := range config.Rules.Disable {
		disabled[id] = true
	}
	for _, id := range config.Rules.Enable {
		if disabled[id] {
			return fmt.Errorf("%w: rule %q is both enabled and disabled", ErrInvalidConfig, id)
		}
	}

	v := cue.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return fmt.Errorf("loading config schema: %w", err)
	}
	issues, err := v.Validate("config", config)
	if err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if len(issues) > 0 {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			msgs = append(msgs, issue.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}

	return nil
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
