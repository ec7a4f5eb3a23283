// Package engine provides the core business logic for deckmerge operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// the package model. It validates requests, opens the source and target
// packages, plans the merge, transplants slides and commits the result.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Merge: Copies selected slides from a source deck into a target deck
//   - Inspect: Lists the slide index of a deck
package engine

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/danieljhkim/deckmerge/internal/clock"
	"github.com/danieljhkim/deckmerge/internal/config"
	"github.com/danieljhkim/deckmerge/internal/fsops"
	"github.com/danieljhkim/deckmerge/internal/hash"
	"github.com/danieljhkim/deckmerge/internal/opc"
	"github.com/danieljhkim/deckmerge/internal/pptx"
)

// Engine orchestrates all deckmerge operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs     fsops.FS
	hasher hash.Hasher
	clock  clock.Clock
	cfg    config.Config
	logger *log.Logger
}

// New creates a new Engine with the given dependencies. A nil cfg means
// config.DefaultConfig(); a nil logger discards all log output.
func New(
	fs fsops.FS,
	hasher hash.Hasher,
	clk clock.Clock,
	cfg *config.Config,
	logger *log.Logger,
) *Engine {
	settings := config.DefaultConfig()
	if cfg != nil {
		settings = *cfg
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		fs:     fs,
		hasher: hasher,
		clock:  clk,
		cfg:    settings,
		logger: logger,
	}
}

// NewLogger returns the logger the CLI hands to New: prefixed, on w, at
// warn level or debug level when verbose.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "deckmerge",
		Level:  level,
	})
}

// openPresentation opens the package at path and loads its presentation.
// The caller closes the returned package.
func (e *Engine) openPresentation(path string, mode opc.Mode) (*opc.Package, *pptx.Presentation, error) {
	pkg, err := opc.Open(path, mode, opc.WithClock(e.clock))
	if err != nil {
		return nil, nil, err
	}
	pres, err := pptx.Load(pkg)
	if err != nil {
		_ = pkg.Close()
		return nil, nil, err
	}
	e.logger.Debug("opened package", "path", path, "mode", mode, "parts", len(pkg.PartNames()))
	return pkg, pres, nil
}
