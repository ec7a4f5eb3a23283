package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/deckmerge/internal/opc"
	"github.com/danieljhkim/deckmerge/internal/pptx"
)

// Inspect lists the slide index of a deck.
func (e *Engine) Inspect(ctx context.Context, req *InspectRequest) (*InspectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Path) == "" {
		return nil, fmt.Errorf("%w: path is required", ErrValidation)
	}
	path, err := filepath.Abs(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %q: %w", req.Path, err)
	}
	if err := e.checkExists("input", path); err != nil {
		return nil, err
	}

	digest, err := e.hasher.HashFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", path, err)
	}

	pkg, pres, err := e.openPresentation(path, opc.ReadOnly)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = pkg.Close()
	}()

	refs, err := pres.SlideRefs()
	if err != nil {
		return nil, err
	}

	result := &InspectResult{
		Path:   path,
		Digest: digest,
		Slides: make([]SlideInfo, 0, len(refs)),
	}
	result.SlideWidth, result.SlideHeight, result.HasSlideSize = pres.SlideSize()

	layout, err := pres.FirstLayout()
	if err != nil {
		return nil, err
	}
	if layout != nil {
		result.FirstLayout = layout.Name()
	}

	for _, ref := range refs {
		info := SlideInfo{Position: ref.Position, ID: ref.ID, RelID: ref.RelID}

		part, err := pres.SlidePart(ref)
		if err != nil {
			e.logger.Warn("slide entry has no part", "slide", ref.Position, "err", err)
			result.Slides = append(result.Slides, info)
			continue
		}
		info.PartName = part.Name()

		rels, err := pkg.Relationships(part.Name())
		if err != nil {
			return nil, err
		}
		if layouts := rels.ByType(pptx.RelSlideLayout); len(layouts) > 0 {
			info.Layout = rels.TargetPart(layouts[0])
		}

		data, err := part.Data()
		if err != nil {
			return nil, err
		}
		if doc, err := pptx.ParseSlide(data); err == nil {
			title, _, _ := strings.Cut(pptx.Text(doc), "\n")
			info.Title = title
		}
		result.Slides = append(result.Slides, info)
	}

	return result, nil
}
