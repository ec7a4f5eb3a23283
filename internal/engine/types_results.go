package engine

import (
	"github.com/danieljhkim/deckmerge/internal/planner"
)

// MergeResult represents the result of a merge.
type MergeResult struct {
	// Plan is the generated plan
	Plan *planner.MergePlan

	// Copied is the list of slides that were copied (empty if DryRun)
	Copied []CopiedSlide

	// Skipped lists selected slide numbers outside the source deck
	Skipped []int

	// Warnings collects non-fatal problems (out of range numbers, repaired
	// slides, dropped references)
	Warnings []string

	// OutputPath is the merged deck (not written on DryRun)
	OutputPath string

	// SourceSlides is the slide count of the source deck
	SourceSlides int

	// TargetSlides is the slide count of the target deck before the merge
	TargetSlides int

	// OutputSlides is the slide count of the merged deck
	OutputSlides int

	// SlideSizeDefaulted is set when the target had no slide size and the
	// default was written
	SlideSizeDefaulted bool

	// SourceDigest and TargetDigest are the input file digests
	SourceDigest string
	TargetDigest string
}

// CopiedSlide describes one transplanted slide.
type CopiedSlide struct {
	// SourceNumber is the 1-based position in the source deck
	SourceNumber int

	// SourceSlideID is the slide ID in the source deck
	SourceSlideID uint32

	// NewSlideID is the slide ID in the merged deck
	NewSlideID uint32

	// Position is the 1-based position in the merged deck
	Position int

	// RelID is the presentation relationship of the new slide
	RelID string

	// PartName is the new slide part
	PartName string

	// Parts lists other parts created for this slide (media, charts...)
	Parts []string

	// Repaired is set when the slide was replaced by an empty slide
	Repaired bool
}

// InspectResult represents the slide index of a deck.
type InspectResult struct {
	// Path is the inspected deck
	Path string

	// Digest is the SHA-256 digest of the file
	Digest string

	// Slides lists the slides in presentation order
	Slides []SlideInfo

	// SlideWidth and SlideHeight are the page size in EMU (zero if unset)
	SlideWidth  int64
	SlideHeight int64

	// HasSlideSize reports whether the deck declares a page size
	HasSlideSize bool

	// FirstLayout is the layout new slides would be bound to (empty if none)
	FirstLayout string
}

// SlideInfo is one entry of an InspectResult.
type SlideInfo struct {
	Position int
	ID       uint32
	RelID    string
	PartName string

	// Layout is the slide's layout part (empty if it has none)
	Layout string

	// Title is the first line of slide text
	Title string
}
