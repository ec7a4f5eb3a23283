package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/danieljhkim/deckmerge/internal/pptxtest"
)

// executeCommand runs the root command with args and returns what it wrote
// to stdout. Flag values from earlier runs are reset first, and the config
// root points at an empty directory so no user config is read.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DECKMERGE_ROOT", t.TempDir())

	resetFlags(rootCmd)
	rootCmd.SetOut(nil)
	rootCmd.SetArgs(args)

	var err error
	out := captureStdout(t, func() {
		err = rootCmd.Execute()
	})
	return out, err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	oldColorOutput := color.Output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w
	color.Output = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	defer func() {
		os.Stdout = oldStdout
		color.Output = oldColorOutput
	}()
	fn()

	_ = w.Close()
	return <-done
}

func writeDeck(t *testing.T, dir, name string, d pptxtest.Deck) string {
	t.Helper()
	path := filepath.Join(dir, name+".pptx")
	pptxtest.Write(t, path, d)
	return path
}
