package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/deckmerge/internal/clock"
	"github.com/danieljhkim/deckmerge/internal/config"
	"github.com/danieljhkim/deckmerge/internal/engine"
	"github.com/danieljhkim/deckmerge/internal/fsops"
	"github.com/danieljhkim/deckmerge/internal/hash"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// loadConfig resolves settings from defaults, config file and environment,
// then applies the flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: configFile})
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	return cfg, nil
}

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine(cfg *config.Config) *engine.Engine {
	fs := fsops.NewRealFS()
	hasher := hash.NewSHA256Hasher()
	clk := &clock.RealClock{}
	logger := engine.NewLogger(os.Stderr, cfg.Verbose)

	return engine.New(fs, hasher, clk, cfg, logger)
}

// FormatError formats an error for display.
func FormatError(err error) string {
	initColors()
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
