package engine

// MergeRequest represents a request to copy slides from one deck into another.
type MergeRequest struct {
	// SourcePath is the deck slides are copied from (opened read-only)
	SourcePath string

	// TargetPath is the deck slides are appended to (never written)
	TargetPath string

	// OutputPath is where the merged deck is written. Empty means
	// <target-dir>/<target-stem><suffix><ext>.
	OutputPath string

	// Slides is the selection expression, e.g. "2,4-6". Empty selects all.
	Slides string

	// DryRun performs planning only without writing anything
	DryRun bool

	// MalformedPolicy overrides the configured malformed slide policy
	MalformedPolicy string
}

// InspectRequest represents a request to list a deck's slides.
type InspectRequest struct {
	// Path is the deck to inspect
	Path string
}
