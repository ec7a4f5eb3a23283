package planner

import (
	"fmt"

	"github.com/danieljhkim/deckmerge/internal/pptx"
)

// MergePlan represents a plan to copy source slides into a target.
type MergePlan struct {
	// Operations is the ordered list of slides to copy
	Operations []Operation

	// OutOfRange lists selected slide numbers the source does not have
	OutOfRange []int

	// Warnings collects non-fatal problems found while planning or executing
	Warnings []string
}

// Operation copies one source slide.
type Operation struct {
	// SourceNumber is the 1-based slide number in the source deck
	SourceNumber int

	// SourceRef is the source slide index entry
	SourceRef pptx.SlideRef

	// NewSlideID is the ID the copy gets in the target
	NewSlideID uint32
}

// NewMergePlan creates a new empty MergePlan.
func NewMergePlan() *MergePlan {
	return &MergePlan{
		Operations: []Operation{},
		OutOfRange: []int{},
		Warnings:   []string{},
	}
}

// HasWarnings returns true if the plan has any warnings.
func (p *MergePlan) HasWarnings() bool {
	return len(p.Warnings) > 0
}

// AddOperation adds an operation to the plan.
func (p *MergePlan) AddOperation(op Operation) {
	p.Operations = append(p.Operations, op)
}

// AddWarning adds a formatted warning to the plan.
func (p *MergePlan) AddWarning(format string, args ...any) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

// SourceNumbers returns the source slide numbers in execution order.
func (p *MergePlan) SourceNumbers() []int {
	out := make([]int, len(p.Operations))
	for i, op := range p.Operations {
		out[i] = op.SourceNumber
	}
	return out
}
