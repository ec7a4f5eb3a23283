package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable deckmerge reads.
const EnvPrefix = "DECKMERGE"

// Malformed slide policies.
const (
	// PolicyRepair replaces a slide without a content tree by an empty slide.
	PolicyRepair = "repair"

	// PolicyReject aborts the merge when a slide has no content tree.
	PolicyReject = "reject"
)

// Config holds the merge settings.
type Config struct {
	// OutputSuffix is appended to the target's file stem when no output path is given.
	OutputSuffix string `mapstructure:"output_suffix"`

	// MalformedSlides is the malformed slide policy ("repair" or "reject").
	MalformedSlides string `mapstructure:"malformed_slides"`

	// SlideWidth and SlideHeight are the EMU page size written when the
	// target presentation declares none.
	SlideWidth  int64 `mapstructure:"slide_width"`
	SlideHeight int64 `mapstructure:"slide_height"`

	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		OutputSuffix:    "_merged",
		MalformedSlides: PolicyRepair,
		SlideWidth:      9144000,
		SlideHeight:     6858000,
	}
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFile is an explicit config file. It must exist when set.
	ConfigFile string

	// Paths locates the default config file. Nil means DefaultPaths().
	Paths *Paths
}

// Load resolves the configuration from defaults, config file and environment.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("output_suffix", defaults.OutputSuffix)
	v.SetDefault("malformed_slides", defaults.MalformedSlides)
	v.SetDefault("slide_width", defaults.SlideWidth)
	v.SetDefault("slide_height", defaults.SlideHeight)
	v.SetDefault("verbose", defaults.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolveConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveConfigFile returns the file to read, or "" when none applies.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return "", fmt.Errorf("config file not found: %s: %w", opts.ConfigFile, err)
		}
		return opts.ConfigFile, nil
	}

	paths := opts.Paths
	if paths == nil {
		var err error
		paths, err = DefaultPaths()
		if err != nil {
			return "", err
		}
	}
	if _, err := os.Stat(paths.Config); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to stat config %s: %w", paths.Config, err)
	}
	return paths.Config, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	switch c.MalformedSlides {
	case PolicyRepair, PolicyReject:
	default:
		return fmt.Errorf("invalid malformed_slides policy %q (want %q or %q)",
			c.MalformedSlides, PolicyRepair, PolicyReject)
	}
	if c.SlideWidth <= 0 || c.SlideHeight <= 0 {
		return fmt.Errorf("invalid default slide size %dx%d", c.SlideWidth, c.SlideHeight)
	}
	if strings.ContainsAny(c.OutputSuffix, `/\`) {
		return fmt.Errorf("output_suffix must not contain path separators: %q", c.OutputSuffix)
	}
	return nil
}

// OutputPathFor derives the default merged output path from the target path:
// <target-dir>/<target-stem><suffix><target-ext>.
func (c *Config) OutputPathFor(target string) string {
	dir := filepath.Dir(target)
	base := filepath.Base(target)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".pptx"
	}
	return filepath.Join(dir, stem+c.OutputSuffix+ext)
}
