package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/deckmerge/internal/config"
	"github.com/danieljhkim/deckmerge/internal/hash"
	"github.com/danieljhkim/deckmerge/internal/opc"
	"github.com/danieljhkim/deckmerge/internal/pptx"
	"github.com/danieljhkim/deckmerge/internal/pptxtest"
	"github.com/danieljhkim/deckmerge/internal/selection"
)

func TestMerge_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 10})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 3})
	out := filepath.Join(dir, "out.pptx")

	eng := newTestEngine(nil)
	result, err := eng.Merge(context.Background(), &MergeRequest{
		SourcePath: src,
		TargetPath: tgt,
		OutputPath: out,
		Slides:     "2,4-6",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, result.SourceSlides)
	assert.Equal(t, 3, result.TargetSlides)
	assert.Equal(t, 7, result.OutputSlides)
	assert.Equal(t, out, result.OutputPath)
	assert.Empty(t, result.Skipped)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.Copied, 4)

	view := openDeckView(t, out)
	require.Len(t, view.refs, 7)

	wantTexts := []string{
		pptxtest.Marker("tgt", 1),
		pptxtest.Marker("tgt", 2),
		pptxtest.Marker("tgt", 3),
		pptxtest.Marker("src", 2),
		pptxtest.Marker("src", 4),
		pptxtest.Marker("src", 5),
		pptxtest.Marker("src", 6),
	}
	if diff := cmp.Diff(wantTexts, view.texts(t)); diff != "" {
		t.Errorf("slide order mismatch (-want +got):\n%s", diff)
	}

	// existing max 258, four copies get 259..262
	if diff := cmp.Diff([]uint32{256, 257, 258, 259, 260, 261, 262}, view.ids()); diff != "" {
		t.Errorf("slide ids mismatch (-want +got):\n%s", diff)
	}

	for i, c := range result.Copied {
		assert.Equal(t, 4+i, c.Position)
		assert.Equal(t, view.refs[3+i].RelID, c.RelID)
		assert.False(t, c.Repaired)
	}
	assert.Equal(t, []int{2, 4, 5, 6}, []int{
		result.Copied[0].SourceNumber, result.Copied[1].SourceNumber,
		result.Copied[2].SourceNumber, result.Copied[3].SourceNumber,
	})

	// original target slides are untouched
	orig := openDeckView(t, tgt)
	for pos := 1; pos <= 3; pos++ {
		assert.True(t, bytes.Equal(orig.slideData(t, pos), view.slideData(t, pos)), "slide %d changed", pos)
	}

	assert.NoError(t, view.pres.Validate())
}

func TestMerge_SlideIDAllocation(t *testing.T) {
	tests := []struct {
		name    string
		target  pptxtest.Deck
		slides  string
		wantNew []uint32
	}{
		{
			name:    "continues after target maximum",
			target:  pptxtest.Deck{Name: "tgt", Slides: 2, FirstSlideID: 1000},
			slides:  "1-3",
			wantNew: []uint32{1002, 1003, 1004},
		},
		{
			name:    "empty target starts at 256",
			target:  pptxtest.Deck{Name: "tgt"},
			slides:  "2,3",
			wantNew: []uint32{256, 257},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 5})
			tgt := writeDeck(t, dir, "tgt", tt.target)

			result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{
				SourcePath: src,
				TargetPath: tgt,
				Slides:     tt.slides,
			})
			require.NoError(t, err)

			var got []uint32
			for _, c := range result.Copied {
				got = append(got, c.NewSlideID)
			}
			assert.Equal(t, tt.wantNew, got)

			view := openDeckView(t, result.OutputPath)
			assert.Equal(t, tt.wantNew, view.ids()[tt.target.Slides:])
		})
	}
}

func TestMerge_DefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 1})
	tgt := writeDeck(t, dir, "deck", pptxtest.Deck{Name: "tgt", Slides: 1})

	result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{
		SourcePath: src,
		TargetPath: tgt,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "deck_merged.pptx"), result.OutputPath)
	_, err = os.Stat(result.OutputPath)
	assert.NoError(t, err)
}

func TestMerge_AllSlidesWhenSelectionEmpty(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 4})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1})

	result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{
		SourcePath: src,
		TargetPath: tgt,
		Slides:     "   ",
	})
	require.NoError(t, err)

	assert.Len(t, result.Copied, 4)
	assert.Len(t, openDeckView(t, result.OutputPath).refs, 5)
}

func TestMerge_OutOfRange(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 10})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 3})

	result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{
		SourcePath: src,
		TargetPath: tgt,
		Slides:     "999",
	})
	require.NoError(t, err)

	assert.Empty(t, result.Copied)
	assert.Equal(t, []int{999}, result.Skipped)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "999")

	view := openDeckView(t, result.OutputPath)
	assert.Len(t, view.refs, 3)
	assert.NoError(t, view.pres.Validate())
}

func TestMerge_NonMutation(t *testing.T) {
	tests := []struct {
		name    string
		source  pptxtest.Deck
		req     MergeRequest
		wantErr bool
	}{
		{
			name:   "successful merge",
			source: pptxtest.Deck{Name: "src", Slides: 4, ImageSlides: []int{2}},
			req:    MergeRequest{Slides: "1-4"},
		},
		{
			name:    "rejected malformed slide",
			source:  pptxtest.Deck{Name: "src", Slides: 3, MalformedSlides: []int{3}},
			req:     MergeRequest{Slides: "1-3", MalformedPolicy: config.PolicyReject},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeDeck(t, dir, "src", tt.source)
			tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 2})
			srcBefore, tgtBefore := readFile(t, src), readFile(t, tgt)

			req := tt.req
			req.SourcePath, req.TargetPath = src, tgt
			_, err := newTestEngine(nil).Merge(context.Background(), &req)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.True(t, bytes.Equal(srcBefore, readFile(t, src)), "source changed")
			assert.True(t, bytes.Equal(tgtBefore, readFile(t, tgt)), "target changed")
		})
	}
}

func TestMerge_Validation(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 2})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 2})
	missing := filepath.Join(dir, "missing.pptx")

	tests := []struct {
		name    string
		req     MergeRequest
		wantErr error
	}{
		{"missing source path", MergeRequest{TargetPath: tgt}, ErrValidation},
		{"missing target path", MergeRequest{SourcePath: src}, ErrValidation},
		{"output is target", MergeRequest{SourcePath: src, TargetPath: tgt, OutputPath: tgt}, ErrValidation},
		{"output is source", MergeRequest{SourcePath: src, TargetPath: tgt, OutputPath: src}, ErrValidation},
		{"source does not exist", MergeRequest{SourcePath: missing, TargetPath: tgt}, ErrFileNotFound},
		{"target does not exist", MergeRequest{SourcePath: src, TargetPath: missing}, ErrFileNotFound},
		{"unknown policy", MergeRequest{SourcePath: src, TargetPath: tgt, MalformedPolicy: "ignore"}, ErrValidation},
		{"reversed range", MergeRequest{SourcePath: src, TargetPath: tgt, Slides: "5-2"}, selection.ErrInvalidSyntax},
		{"not a number", MergeRequest{SourcePath: src, TargetPath: tgt, Slides: "abc"}, selection.ErrInvalidSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if req.OutputPath == "" {
				req.OutputPath = filepath.Join(t.TempDir(), "out.pptx")
			}

			result, err := newTestEngine(nil).Merge(context.Background(), &req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)

			if req.OutputPath != src && req.OutputPath != tgt {
				_, statErr := os.Stat(req.OutputPath)
				assert.True(t, os.IsNotExist(statErr), "output must not exist")
			}
		})
	}
}

func TestMerge_SyntaxCheckedBeforeOpen(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pptx")
	require.NoError(t, os.WriteFile(src, []byte("not a package"), 0644))
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1})

	_, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{
		SourcePath: src,
		TargetPath: tgt,
		Slides:     "3-",
	})
	assert.ErrorIs(t, err, selection.ErrInvalidSyntax)
	assert.NotErrorIs(t, err, opc.ErrPackageCorrupt)

	_, err = newTestEngine(nil).Merge(context.Background(), &MergeRequest{
		SourcePath: src,
		TargetPath: tgt,
		Slides:     "1",
	})
	assert.ErrorIs(t, err, opc.ErrPackageCorrupt)
}

func TestMerge_MalformedSlides(t *testing.T) {
	source := pptxtest.Deck{Name: "src", Slides: 3, MalformedSlides: []int{2}, BrokenSlides: []int{3}}

	t.Run("repair", func(t *testing.T) {
		dir := t.TempDir()
		src := writeDeck(t, dir, "src", source)
		tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1})

		result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{
			SourcePath: src,
			TargetPath: tgt,
			Slides:     "1-3",
		})
		require.NoError(t, err)

		require.Len(t, result.Copied, 3)
		assert.False(t, result.Copied[0].Repaired)
		assert.True(t, result.Copied[1].Repaired)
		assert.True(t, result.Copied[2].Repaired)
		assert.Len(t, result.Warnings, 2)

		view := openDeckView(t, result.OutputPath)
		require.Len(t, view.refs, 4)
		for pos := 2; pos <= 4; pos++ {
			assert.True(t, pptx.HasContent(view.slideDoc(t, pos)), "slide %d has no content tree", pos)
			layouts := view.slideRels(t, pos).ByType(pptx.RelSlideLayout)
			require.Len(t, layouts, 1, "slide %d layout", pos)
		}
		assert.Empty(t, pptx.Text(view.slideDoc(t, 3)))
		assert.NoError(t, view.pres.Validate())
	})

	t.Run("reject", func(t *testing.T) {
		dir := t.TempDir()
		src := writeDeck(t, dir, "src", source)
		tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1})
		out := filepath.Join(dir, "out.pptx")

		_, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{
			SourcePath:      src,
			TargetPath:      tgt,
			OutputPath:      out,
			Slides:          "1-3",
			MalformedPolicy: config.PolicyReject,
		})
		require.ErrorIs(t, err, ErrMalformedSlide)

		_, statErr := os.Stat(out)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("policy from config", func(t *testing.T) {
		dir := t.TempDir()
		src := writeDeck(t, dir, "src", source)
		tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1})

		cfg := config.DefaultConfig()
		cfg.MalformedSlides = config.PolicyReject
		eng := newConfiguredEngine(&cfg)

		_, err := eng.Merge(context.Background(), &MergeRequest{SourcePath: src, TargetPath: tgt, Slides: "2"})
		assert.ErrorIs(t, err, ErrMalformedSlide)
	})
}

func TestMerge_RelinksImages(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 3, ImageSlides: []int{1, 3}})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1, ImageSlides: []int{1}})

	result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{
		SourcePath: src,
		TargetPath: tgt,
		Slides:     "1,3",
	})
	require.NoError(t, err)

	// the shared source image is copied once under a free name
	assert.Equal(t, []string{"/ppt/media/image2.png"}, result.Copied[0].Parts)
	assert.Empty(t, result.Copied[1].Parts)

	view := openDeckView(t, result.OutputPath)
	for pos := 2; pos <= 3; pos++ {
		rels := view.slideRels(t, pos)
		images := rels.ByType(pptx.RelImage)
		require.Len(t, images, 1)
		assert.Equal(t, "/ppt/media/image2.png", rels.TargetPart(images[0]))
		assert.True(t, view.pkg.HasPart("/ppt/media/image2.png"))

		blip := view.slideDoc(t, pos).FindElement("//blip")
		require.NotNil(t, blip)
		assert.Equal(t, images[0].ID, blip.SelectAttrValue("r:embed", ""))
	}
	assert.Equal(t, "image/png", view.pkg.ContentType("/ppt/media/image2.png"))
}

func TestMerge_ChartsKeepTheirOwnWorkbooks(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 2, ChartSlides: []int{1, 2}})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1})

	result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{
		SourcePath: src,
		TargetPath: tgt,
	})
	require.NoError(t, err)
	require.Len(t, result.Copied, 2)

	// identical chart XML must not be shared when the charts embed different data
	view := openDeckView(t, result.OutputPath)
	seen := map[string]bool{}
	for i, source := range []int{1, 2} {
		rels := view.slideRels(t, i+2)
		charts := rels.ByType(pptxtest.RelChart)
		require.Len(t, charts, 1)
		chart := rels.TargetPart(charts[0])
		assert.False(t, seen[chart], "chart part %s reused", chart)
		seen[chart] = true

		chartRels, err := view.pkg.Relationships(chart)
		require.NoError(t, err)
		embedded, ok := chartRels.Get("rId1")
		require.True(t, ok)
		workbook, err := view.pkg.Part(chartRels.TargetPart(embedded))
		require.NoError(t, err)
		data, err := workbook.Data()
		require.NoError(t, err)
		assert.Equal(t, pptxtest.Workbook(source), string(data))
	}
}

func TestMerge_CarriesExternalHyperlinks(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 1, HyperlinkSlides: []int{1}})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1})

	result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{SourcePath: src, TargetPath: tgt})
	require.NoError(t, err)

	view := openDeckView(t, result.OutputPath)
	rels := view.slideRels(t, 2)
	links := rels.ByType(pptx.RelHyperlink)
	require.Len(t, links, 1)
	assert.True(t, links[0].External())
	assert.Equal(t, "https://example.com/deck", links[0].Target)

	click := view.slideDoc(t, 2).FindElement("//hlinkClick")
	require.NotNil(t, click)
	assert.Equal(t, links[0].ID, click.SelectAttrValue("r:id", ""))
}

func TestMerge_DropsDanglingReferences(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 1, DanglingRefSlides: []int{1}})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1})

	result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{SourcePath: src, TargetPath: tgt})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "rId99")

	view := openDeckView(t, result.OutputPath)
	doc := view.slideDoc(t, 2)
	assert.Empty(t, pptx.References(doc))
	assert.Equal(t, pptxtest.Marker("src", 1), pptx.Text(doc))
}

func TestMerge_LayoutAndNotesNotCarried(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 2, Layouts: 2, NotesSlides: []int{1, 2}})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1, Layouts: 3})

	result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{SourcePath: src, TargetPath: tgt})
	require.NoError(t, err)

	view := openDeckView(t, result.OutputPath)
	for pos := 2; pos <= 3; pos++ {
		rels := view.slideRels(t, pos)
		require.Equal(t, 1, rels.Len(), "only the layout relationship remains")
		layouts := rels.ByType(pptx.RelSlideLayout)
		require.Len(t, layouts, 1)
		assert.Equal(t, "/ppt/slideLayouts/slideLayout1.xml", rels.TargetPart(layouts[0]))
	}

	for _, name := range view.pkg.PartNames() {
		assert.False(t, strings.Contains(name, "notesSlide"), "unexpected part %s", name)
	}
	assert.False(t, view.pkg.HasPart("/ppt/slideLayouts/slideLayout4.xml"), "no layout copied")
	assert.False(t, view.pkg.HasPart("/ppt/slideMasters/slideMaster2.xml"), "no master copied")
}

func TestMerge_TargetWithoutMaster(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 1})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1, NoMaster: true})

	result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{SourcePath: src, TargetPath: tgt})
	require.NoError(t, err)

	view := openDeckView(t, result.OutputPath)
	assert.Empty(t, view.slideRels(t, 2).ByType(pptx.RelSlideLayout))
	assert.Equal(t, pptxtest.Marker("src", 1), pptx.Text(view.slideDoc(t, 2)))
}

func TestMerge_SlideSize(t *testing.T) {
	tests := []struct {
		name        string
		omit        bool
		wantDefault bool
		wantCX      int64
	}{
		{"target declares size", false, false, 12192000},
		{"target lacks size", true, true, pptx.DefaultSlideWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 1})
			tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1, OmitSlideSize: tt.omit})

			result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{SourcePath: src, TargetPath: tgt})
			require.NoError(t, err)
			assert.Equal(t, tt.wantDefault, result.SlideSizeDefaulted)

			cx, cy, ok := openDeckView(t, result.OutputPath).pres.SlideSize()
			require.True(t, ok)
			assert.Equal(t, tt.wantCX, cx)
			assert.Equal(t, pptx.DefaultSlideHeight, cy)
		})
	}
}

func TestMerge_DryRun(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 5})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 2})
	out := filepath.Join(dir, "out.pptx")

	result, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{
		SourcePath: src,
		TargetPath: tgt,
		OutputPath: out,
		Slides:     "4,5,8",
		DryRun:     true,
	})
	require.NoError(t, err)

	require.Len(t, result.Plan.Operations, 2)
	assert.Equal(t, uint32(258), result.Plan.Operations[0].NewSlideID)
	assert.Equal(t, uint32(259), result.Plan.Operations[1].NewSlideID)
	assert.Equal(t, []int{8}, result.Skipped)
	assert.Equal(t, 4, result.OutputSlides)
	assert.Empty(t, result.Copied)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "dry run must not write")
}

func TestMerge_InputModified(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 2})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 2})
	out := filepath.Join(dir, "out.pptx")

	hasher := hash.NewFakeHasher()
	hasher.SetHashSequence(tgt, "before", "after")

	_, err := newTestEngine(hasher).Merge(context.Background(), &MergeRequest{
		SourcePath: src,
		TargetPath: tgt,
		OutputPath: out,
	})
	require.ErrorIs(t, err, ErrInputModified)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestMerge_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 1})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(nil).Merge(ctx, &MergeRequest{SourcePath: src, TargetPath: tgt})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMerge_CreatesOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	src := writeDeck(t, dir, "src", pptxtest.Deck{Name: "src", Slides: 1})
	tgt := writeDeck(t, dir, "tgt", pptxtest.Deck{Name: "tgt", Slides: 1})
	out := filepath.Join(dir, "nested", "deeper", "out.pptx")

	_, err := newTestEngine(nil).Merge(context.Background(), &MergeRequest{SourcePath: src, TargetPath: tgt, OutputPath: out})
	require.NoError(t, err)
	assert.Len(t, openDeckView(t, out).refs, 2)
}
