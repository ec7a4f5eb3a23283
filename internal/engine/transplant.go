package engine

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/danieljhkim/deckmerge/internal/config"
	"github.com/danieljhkim/deckmerge/internal/hash"
	"github.com/danieljhkim/deckmerge/internal/opc"
	"github.com/danieljhkim/deckmerge/internal/planner"
	"github.com/danieljhkim/deckmerge/internal/pptx"
)

// skippedRelTypes are slide relationships that are never carried into the
// target: layouts and masters are rebound to the target's own, and notes,
// comments and slide-to-slide links belong to the source deck.
var skippedRelTypes = map[string]bool{
	pptx.RelSlide:          true,
	pptx.RelSlideLayout:    true,
	pptx.RelSlideMaster:    true,
	pptx.RelNotesSlide:     true,
	pptx.RelComments:       true,
	pptx.RelModernComments: true,
}

// fallbackContentType is declared for copied parts the source package has
// no content type for.
const fallbackContentType = "application/octet-stream"

// transplanter copies slides from src into dst for one merge run.
type transplanter struct {
	src     *opc.Package
	dst     *opc.Package
	srcPres *pptx.Presentation
	dstPres *pptx.Presentation
	layout  *opc.Part
	policy  string
	plan    *planner.MergePlan
	hasher  hash.Hasher
	logger  *log.Logger

	// copied maps source part names to the target parts created for them.
	copied map[string]string
	// stored maps payload digest and content type to a target part.
	stored map[string]string
	// created collects the parts added for the slide in progress.
	created []string
}

func newTransplanter(
	e *Engine,
	src *opc.Package,
	srcPres *pptx.Presentation,
	dst *opc.Package,
	dstPres *pptx.Presentation,
	policy string,
	plan *planner.MergePlan,
) (*transplanter, error) {
	layout, err := dstPres.FirstLayout()
	if err != nil {
		return nil, fmt.Errorf("failed to find target layout: %w", err)
	}
	if layout == nil {
		e.logger.Debug("target has no slide layout; copied slides stay layout-less")
	} else {
		e.logger.Debug("binding copied slides to layout", "layout", layout.Name())
	}

	return &transplanter{
		src:     src,
		dst:     dst,
		srcPres: srcPres,
		dstPres: dstPres,
		layout:  layout,
		policy:  policy,
		plan:    plan,
		hasher:  e.hasher,
		logger:  e.logger,
		copied:  make(map[string]string),
		stored:  make(map[string]string),
	}, nil
}

// transplant copies one planned slide and appends it to the target's index.
func (t *transplanter) transplant(op planner.Operation) (CopiedSlide, error) {
	part, err := t.srcPres.SlidePart(op.SourceRef)
	if err != nil {
		return CopiedSlide{}, err
	}
	data, err := part.Data()
	if err != nil {
		return CopiedSlide{}, err
	}

	t.created = nil
	doc, parseErr := pptx.ParseSlide(data)
	repaired := parseErr != nil || !pptx.HasContent(doc)
	if repaired {
		reason := "no slide content tree"
		if parseErr != nil {
			reason = parseErr.Error()
		}
		if t.policy == config.PolicyReject {
			return CopiedSlide{}, fmt.Errorf("%w: source slide %d (%s): %s", ErrMalformedSlide, op.SourceNumber, part.Name(), reason)
		}
		t.logger.Warn("repairing malformed slide", "slide", op.SourceNumber, "part", part.Name(), "reason", reason)
		t.plan.AddWarning("slide %d is malformed (%s) and was replaced with an empty slide", op.SourceNumber, reason)
		doc = pptx.MinimalSlide()
	}

	name := t.dst.NextPartName(pptx.SlidePartTemplate)
	slide, err := t.dst.AddPart(name, pptx.ContentTypeSlide, nil)
	if err != nil {
		return CopiedSlide{}, err
	}

	if t.layout != nil {
		if _, err := t.dst.AddRelationship(name, pptx.RelSlideLayout, t.layout.Name()); err != nil {
			return CopiedSlide{}, err
		}
	}

	if !repaired {
		ids, err := t.carryRelationships(op.SourceNumber, part.Name(), name)
		if err != nil {
			return CopiedSlide{}, err
		}
		for _, id := range pptx.Relink(doc, ids) {
			t.logger.Warn("dropping unresolved reference", "slide", op.SourceNumber, "rel_id", id)
			t.plan.AddWarning("slide %d: dropped reference to missing relationship %s", op.SourceNumber, id)
		}
	}

	out, err := opc.MarshalXML(doc)
	if err != nil {
		return CopiedSlide{}, fmt.Errorf("failed to serialize %s: %w", name, err)
	}
	if err := t.dst.SetData(slide, out); err != nil {
		return CopiedSlide{}, err
	}

	relID, err := t.dst.AddRelationship(t.dstPres.PartName(), pptx.RelSlide, name)
	if err != nil {
		return CopiedSlide{}, err
	}
	ref, err := t.dstPres.AppendSlide(op.NewSlideID, relID)
	if err != nil {
		return CopiedSlide{}, err
	}

	t.logger.Debug("copied slide",
		"source", op.SourceNumber,
		"part", name,
		"id", op.NewSlideID,
		"rel_id", relID,
		"extra_parts", len(t.created))

	return CopiedSlide{
		SourceNumber:  op.SourceNumber,
		SourceSlideID: op.SourceRef.ID,
		NewSlideID:    op.NewSlideID,
		Position:      ref.Position,
		RelID:         relID,
		PartName:      name,
		Parts:         t.created,
		Repaired:      repaired,
	}, nil
}

// carryRelationships re-creates the source slide's relationships on the new
// slide part and returns the old-to-new ID map.
func (t *transplanter) carryRelationships(slideNumber int, source, dest string) (map[string]string, error) {
	rels, err := t.src.Relationships(source)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]string, rels.Len())
	for _, rel := range rels.All() {
		if skippedRelTypes[rel.Type] {
			t.logger.Debug("not carrying relationship", "slide", slideNumber, "rel_id", rel.ID, "type", rel.Type)
			continue
		}

		if rel.External() {
			id, err := t.dst.AddExternalRelationship(dest, rel.Type, rel.Target)
			if err != nil {
				return nil, err
			}
			ids[rel.ID] = id
			continue
		}

		target, err := t.copyPart(rels.TargetPart(rel))
		if errors.Is(err, opc.ErrPartNotFound) {
			t.plan.AddWarning("slide %d: relationship %s points at missing part %s", slideNumber, rel.ID, rel.Target)
			continue
		}
		if err != nil {
			return nil, err
		}
		id, err := t.dst.AddRelationship(dest, rel.Type, target)
		if err != nil {
			return nil, err
		}
		ids[rel.ID] = id
	}
	return ids, nil
}

// copyPart copies a source part, and everything it relates to, into the
// target under a fresh name. A part is copied at most once per run.
// Identical payloads of the same content type share one target part, but
// only for leaf parts: a part with relationships is always copied, since
// equal bytes can still point at different targets.
// Relationships of a copied part keep their IDs because its content is
// copied verbatim.
func (t *transplanter) copyPart(name string) (string, error) {
	if dest, ok := t.copied[name]; ok {
		return dest, nil
	}

	part, err := t.src.Part(name)
	if err != nil {
		return "", err
	}
	data, err := part.Data()
	if err != nil {
		return "", err
	}
	rels, err := t.src.Relationships(name)
	if err != nil {
		return "", err
	}
	contentType := t.src.ContentType(name)
	if contentType == "" {
		t.plan.AddWarning("%s has no content type; stored as %s", name, fallbackContentType)
		contentType = fallbackContentType
	}

	var key string
	if rels.Len() == 0 {
		key = t.hasher.HashBytes(data) + " " + contentType
		if dest, ok := t.stored[key]; ok {
			t.copied[name] = dest
			return dest, nil
		}
	}

	dest := t.dst.NextPartName(opc.PartNameTemplate(name))
	if _, err := t.dst.AddPart(dest, contentType, data); err != nil {
		return "", err
	}
	t.copied[name] = dest
	if key != "" {
		t.stored[key] = dest
	}
	t.created = append(t.created, dest)
	t.logger.Debug("copied part", "from", name, "to", dest, "bytes", len(data))

	for _, rel := range rels.All() {
		if skippedRelTypes[rel.Type] {
			continue
		}
		if rel.External() {
			if err := t.dst.AddExternalRelationshipWithID(dest, rel.ID, rel.Type, rel.Target); err != nil {
				return "", err
			}
			continue
		}
		target, err := t.copyPart(rels.TargetPart(rel))
		if errors.Is(err, opc.ErrPartNotFound) {
			t.plan.AddWarning("%s: relationship %s points at missing part %s", name, rel.ID, rel.Target)
			continue
		}
		if err != nil {
			return "", err
		}
		if err := t.dst.AddRelationshipWithID(dest, rel.ID, rel.Type, target); err != nil {
			return "", err
		}
	}
	return dest, nil
}
