package planner

import (
	"fmt"

	"github.com/danieljhkim/deckmerge/internal/opc"
	"github.com/danieljhkim/deckmerge/internal/pptx"
	"github.com/danieljhkim/deckmerge/internal/selection"
)

// BuildMergePlan generates a deterministic plan to copy the selected source
// slides. refs is the source slide index and maxSlideID the largest slide ID
// already used by the target.
//
// New IDs count up from maxSlideID, or from pptx.MinSlideID when the target
// has no slide with an ID at or above it.
func BuildMergePlan(refs []pptx.SlideRef, sel *selection.Selection, maxSlideID uint32) (*MergePlan, error) {
	plan := NewMergePlan()

	seed := maxSlideID
	if seed < pptx.MinSlideID-1 {
		seed = pptx.MinSlideID - 1
	}
	ids := opc.NewCounter(uint64(seed))

	for _, n := range sel.Valid {
		if n < 1 || n > len(refs) {
			return nil, fmt.Errorf("slide %d outside source deck of %d slides", n, len(refs))
		}
		id := ids.Next()
		if id > uint64(pptx.MaxSlideID) {
			return nil, fmt.Errorf("%w: slide %d would need id %d", pptx.ErrSlideIDExhausted, n, id)
		}
		plan.AddOperation(Operation{
			SourceNumber: n,
			SourceRef:    refs[n-1],
			NewSlideID:   uint32(id),
		})
	}

	for _, n := range sel.Invalid {
		plan.OutOfRange = append(plan.OutOfRange, n)
		plan.AddWarning("slide %d is out of range (source has %d slides)", n, len(refs))
	}

	return plan, nil
}
