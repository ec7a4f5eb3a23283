package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	got := FormatError(errors.New("boom"))
	if !strings.Contains(got, "Error:") || !strings.Contains(got, "boom") {
		t.Errorf("FormatError() = %q, expected to contain 'Error: boom'", got)
	}
}

func TestOutputJSON(t *testing.T) {
	data := map[string]int{"slides": 3}

	out := captureStdout(t, func() {
		if err := outputJSON(data); err != nil {
			t.Fatalf("outputJSON() error = %v", err)
		}
	})

	var v map[string]int
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("outputJSON() produced invalid JSON: %v", err)
	}
	if v["slides"] != 3 {
		t.Errorf("outputJSON() round trip = %v", v)
	}
}

func TestPrintFunctions(t *testing.T) {
	oldStderr := os.Stderr
	rErr, wErr, _ := os.Pipe()
	os.Stderr = wErr

	out := captureStdout(t, func() {
		PrintSuccess("Success message")
		PrintWarning("Warning message")
		PrintError("Error message")
		PrintInfo("Info message")
		PrintTable([]string{"#", "TITLE"}, [][]string{{"1", "Intro"}})
	})

	_ = wErr.Close()
	os.Stderr = oldStderr

	var bufErr bytes.Buffer
	_, _ = bufErr.ReadFrom(rErr)

	for _, want := range []string{"Success message", "Warning message", "Info message", "Intro"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected stdout to contain %q", want)
		}
	}
	if strings.Contains(out, "Error message") {
		t.Error("PrintError should not write to stdout")
	}
	if !strings.Contains(bufErr.String(), "Error message") {
		t.Error("PrintError should write to stderr")
	}
}

func TestPrintCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0 slides"},
		{1, "1 slide"},
		{7, "7 slides"},
	}
	for _, tt := range tests {
		if got := PrintCount(tt.count, "slide", "slides"); got != tt.want {
			t.Errorf("PrintCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}
