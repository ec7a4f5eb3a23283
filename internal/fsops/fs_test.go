package fsops

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestRealFS_Exists(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	t.Run("existing file", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "exists.txt")
		if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		exists, err := fs.Exists(testFile)
		if err != nil {
			t.Errorf("Exists returned error: %v", err)
		}
		if !exists {
			t.Error("Exists should return true for existing file")
		}
	})

	t.Run("non-existing file", func(t *testing.T) {
		nonExistent := filepath.Join(tmpDir, "does-not-exist.txt")
		exists, err := fs.Exists(nonExistent)
		if err != nil {
			t.Errorf("Exists returned error: %v", err)
		}
		if exists {
			t.Error("Exists should return false for non-existing file")
		}
	})

	t.Run("existing directory", func(t *testing.T) {
		exists, err := fs.Exists(tmpDir)
		if err != nil {
			t.Errorf("Exists returned error: %v", err)
		}
		if !exists {
			t.Error("Exists should return true for existing directory")
		}
	})

	t.Run("dangling symlink", func(t *testing.T) {
		link := filepath.Join(tmpDir, "dangling.pptx")
		if err := os.Symlink(filepath.Join(tmpDir, "gone.pptx"), link); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}
		exists, err := fs.Exists(link)
		if err != nil {
			t.Errorf("Exists returned error: %v", err)
		}
		if exists {
			t.Error("Exists should return false for a symlink to a missing file")
		}
	})
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	t.Run("write to new file", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "atomic-new.pptx")
		content := []byte("atomic content")

		if err := fs.AtomicWrite(testFile, content, 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}

		readContent, err := os.ReadFile(testFile)
		if err != nil {
			t.Fatalf("failed to read written file: %v", err)
		}
		if string(readContent) != string(content) {
			t.Errorf("File content mismatch: got %q, want %q", readContent, content)
		}
	})

	t.Run("overwrite existing file", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "atomic-overwrite.pptx")
		if err := os.WriteFile(testFile, []byte("initial"), 0644); err != nil {
			t.Fatalf("failed to create initial file: %v", err)
		}

		newContent := []byte("overwritten")
		if err := fs.AtomicWrite(testFile, newContent, 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}

		readContent, err := os.ReadFile(testFile)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(readContent) != string(newContent) {
			t.Errorf("File content not updated: got %q, want %q", readContent, newContent)
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "nested", "dir", "out.pptx")
		if err := fs.AtomicWrite(testFile, []byte("x"), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}
		if _, err := os.Stat(testFile); err != nil {
			t.Errorf("expected file to exist: %v", err)
		}
	})
}

func TestRealFS_AtomicWriteFunc(t *testing.T) {
	fs := &RealFS{}

	t.Run("failed writer leaves no destination", func(t *testing.T) {
		tmpDir := t.TempDir()
		dest := filepath.Join(tmpDir, "out.pptx")
		boom := errors.New("boom")

		err := fs.AtomicWriteFunc(dest, 0644, func(w io.Writer) error {
			_, _ = w.Write([]byte("partial"))
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped writer error, got %v", err)
		}
		if _, err := os.Stat(dest); !os.IsNotExist(err) {
			t.Errorf("destination should not exist after failed write, stat err = %v", err)
		}

		// No temp files may survive either
		entries, err := os.ReadDir(tmpDir)
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty directory, found %d entries", len(entries))
		}
	})

	t.Run("failed writer keeps previous content", func(t *testing.T) {
		tmpDir := t.TempDir()
		dest := filepath.Join(tmpDir, "out.pptx")
		if err := os.WriteFile(dest, []byte("previous"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}

		_ = fs.AtomicWriteFunc(dest, 0644, func(w io.Writer) error {
			return errors.New("boom")
		})

		got, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(got) != "previous" {
			t.Errorf("content = %q, want %q", got, "previous")
		}
	})
}

func TestRealFS_ReadFile(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	t.Run("read existing file", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "read-test.txt")
		content := []byte("test content")
		if err := os.WriteFile(testFile, content, 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		readContent, err := fs.ReadFile(testFile)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(readContent) != string(content) {
			t.Errorf("ReadFile content mismatch: got %q, want %q", readContent, content)
		}
	})

	t.Run("read non-existing file", func(t *testing.T) {
		_, err := fs.ReadFile(filepath.Join(tmpDir, "does-not-exist.txt"))
		if err == nil {
			t.Error("ReadFile should return error for non-existing file")
		}
	})
}

func TestRealFS_SameFile(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	a := filepath.Join(tmpDir, "a.pptx")
	b := filepath.Join(tmpDir, "b.pptx")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", p, err)
		}
	}
	link := filepath.Join(tmpDir, "link.pptx")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	tests := []struct {
		name string
		x, y string
		want bool
	}{
		{"identical paths", a, a, true},
		{"unclean path", a, filepath.Join(tmpDir, ".", "a.pptx"), true},
		{"symlink to file", a, link, true},
		{"different files", a, b, false},
		{"missing file", a, filepath.Join(tmpDir, "missing.pptx"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.SameFile(tt.x, tt.y)
			if err != nil {
				t.Fatalf("SameFile error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SameFile(%q, %q) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRealFS_Remove(t *testing.T) {
	fs := &RealFS{}
	testFile := filepath.Join(t.TempDir(), "remove-me.txt")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if err := fs.Remove(testFile); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(testFile); !os.IsNotExist(err) {
		t.Error("File should have been removed")
	}
}
