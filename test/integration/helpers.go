package integration

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/deckmerge/internal/clock"
	"github.com/danieljhkim/deckmerge/internal/engine"
	"github.com/danieljhkim/deckmerge/internal/fsops"
	"github.com/danieljhkim/deckmerge/internal/hash"
	"github.com/danieljhkim/deckmerge/internal/opc"
	"github.com/danieljhkim/deckmerge/internal/pptx"
	"github.com/danieljhkim/deckmerge/internal/pptxtest"
)

var errDiskFull = errors.New("no space left on device")

// testFS is the real filesystem with an optional write fault: after
// failAfter bytes every write to an atomic writer fails.
type testFS struct {
	*fsops.RealFS
	failAfter int
	writes    int
}

func newTestFS() *testFS {
	return &testFS{RealFS: fsops.NewRealFS(), failAfter: -1}
}

func (fs *testFS) AtomicWriteFunc(path string, perm os.FileMode, write func(w io.Writer) error) error {
	fs.writes++
	if fs.failAfter < 0 {
		return fs.RealFS.AtomicWriteFunc(path, perm, write)
	}
	return fs.RealFS.AtomicWriteFunc(path, perm, func(w io.Writer) error {
		return write(&faultWriter{w: w, remaining: fs.failAfter})
	})
}

type faultWriter struct {
	w         io.Writer
	remaining int
}

func (fw *faultWriter) Write(p []byte) (int, error) {
	if len(p) > fw.remaining {
		n, _ := fw.w.Write(p[:fw.remaining])
		fw.remaining = 0
		return n, errDiskFull
	}
	fw.remaining -= len(p)
	return fw.w.Write(p)
}

func setupTestEngine(t *testing.T) (*engine.Engine, *testFS) {
	t.Helper()
	fs := newTestFS()
	eng := engine.New(
		fs,
		hash.NewSHA256Hasher(),
		clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		nil,
		nil,
	)
	return eng, fs
}

func writeDeck(t *testing.T, dir, name string, d pptxtest.Deck) string {
	t.Helper()
	path := filepath.Join(dir, name+".pptx")
	pptxtest.Write(t, path, d)
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}

// openedDeck is a read-only view of a deck on disk.
type openedDeck struct {
	pkg  *opc.Package
	pres *pptx.Presentation
	refs []pptx.SlideRef
}

func openDeck(t *testing.T, path string) *openedDeck {
	t.Helper()
	pkg, err := opc.Open(path, opc.ReadOnly)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	t.Cleanup(func() { _ = pkg.Close() })

	pres, err := pptx.Load(pkg)
	if err != nil {
		t.Fatalf("failed to load presentation: %v", err)
	}
	refs, err := pres.SlideRefs()
	if err != nil {
		t.Fatalf("failed to read slides: %v", err)
	}
	return &openedDeck{pkg: pkg, pres: pres, refs: refs}
}

func (d *openedDeck) slideData(t *testing.T, position int) []byte {
	t.Helper()
	part, err := d.pres.SlidePart(d.refs[position-1])
	if err != nil {
		t.Fatalf("slide %d: %v", position, err)
	}
	data, err := part.Data()
	if err != nil {
		t.Fatalf("slide %d: %v", position, err)
	}
	return data
}

func (d *openedDeck) slideText(t *testing.T, position int) string {
	t.Helper()
	doc, err := pptx.ParseSlide(d.slideData(t, position))
	if err != nil {
		t.Fatalf("slide %d: %v", position, err)
	}
	return pptx.Text(doc)
}

func (d *openedDeck) partsUnder(prefix string) []string {
	var out []string
	for _, name := range d.pkg.PartNames() {
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			out = append(out, name)
		}
	}
	return out
}

// leftovers lists files in dir other than the given names.
func leftovers(t *testing.T, dir string, keep ...string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}
	known := make(map[string]bool, len(keep))
	for _, k := range keep {
		known[k] = true
	}
	var out []string
	for _, e := range entries {
		if !known[e.Name()] {
			out = append(out, e.Name())
		}
	}
	return out
}
