package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/deckmerge/internal/clock"
	"github.com/danieljhkim/deckmerge/internal/config"
	"github.com/danieljhkim/deckmerge/internal/fsops"
	"github.com/danieljhkim/deckmerge/internal/hash"
	"github.com/danieljhkim/deckmerge/internal/opc"
	"github.com/danieljhkim/deckmerge/internal/pptx"
	"github.com/danieljhkim/deckmerge/internal/pptxtest"
)

func newTestEngine(hasher hash.Hasher) *Engine {
	if hasher == nil {
		hasher = hash.NewSHA256Hasher()
	}
	return New(
		fsops.NewRealFS(),
		hasher,
		clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		nil,
		nil,
	)
}

func newConfiguredEngine(cfg *config.Config) *Engine {
	return New(
		fsops.NewRealFS(),
		hash.NewSHA256Hasher(),
		clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		cfg,
		nil,
	)
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
	require.NoError(t, err)
	return data
}

// deckView is a read-only handle on a written deck.
type deckView struct {
	pkg  *opc.Package
	pres *pptx.Presentation
	refs []pptx.SlideRef
}

func openDeckView(t *testing.T, path string) *deckView {
	t.Helper()
	pkg, err := opc.Open(path, opc.ReadOnly)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkg.Close() })

	pres, err := pptx.Load(pkg)
	require.NoError(t, err)
	refs, err := pres.SlideRefs()
	require.NoError(t, err)
	return &deckView{pkg: pkg, pres: pres, refs: refs}
}

func (v *deckView) slidePart(t *testing.T, position int) *opc.Part {
	t.Helper()
	part, err := v.pres.SlidePart(v.refs[position-1])
	require.NoError(t, err)
	return part
}

func (v *deckView) slideData(t *testing.T, position int) []byte {
	t.Helper()
	data, err := v.slidePart(t, position).Data()
	require.NoError(t, err)
	return data
}

func (v *deckView) slideDoc(t *testing.T, position int) *etree.Document {
	t.Helper()
	doc, err := pptx.ParseSlide(v.slideData(t, position))
	require.NoError(t, err)
	return doc
}

func (v *deckView) slideRels(t *testing.T, position int) *opc.Relationships {
	t.Helper()
	rels, err := v.pkg.Relationships(v.slidePart(t, position).Name())
	require.NoError(t, err)
	return rels
}

func (v *deckView) texts(t *testing.T) []string {
	t.Helper()
	out := make([]string, len(v.refs))
	for i := range v.refs {
		out[i] = pptx.Text(v.slideDoc(t, i+1))
	}
	return out
}

func (v *deckView) ids() []uint32 {
	out := make([]uint32, len(v.refs))
	for i, ref := range v.refs {
		out[i] = ref.ID
	}
	return out
}
