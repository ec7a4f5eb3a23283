// Package config manages deckmerge configuration and filesystem paths.
//
// Settings come from three layers, lowest precedence first: built-in
// defaults, an optional config file, and DECKMERGE_* environment variables.
// Command-line flags are applied on top by the CLI. The default root is
// ~/.deckmerge/ containing config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by deckmerge.
type Paths struct {
	// Root is the base directory for deckmerge data (default: ~/.deckmerge)
	Root string

	// Config is the path to the global config file
	Config string
}

// DefaultPaths returns the default paths for deckmerge.
// Paths can be overridden with environment variables:
// - DECKMERGE_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("DECKMERGE_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".deckmerge")
	}

	return &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),
	}, nil
}
