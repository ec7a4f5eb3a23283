package pptx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/danieljhkim/deckmerge/internal/opc"
)

var (
	// ErrInconsistent is returned by Validate when the slide index and the
	// presentation's relationships disagree.
	ErrInconsistent = errors.New("presentation is inconsistent")

	// ErrSlideIDExhausted is returned when no slide ID below MaxSlideID is left.
	ErrSlideIDExhausted = errors.New("slide id space exhausted")
)

// SlideRef is one entry of the slide index.
type SlideRef struct {
	// Position is the 1-based position in presentation order.
	Position int
	// ID is the p:sldId/@id value.
	ID uint32
	// RelID is the presentation relationship pointing at the slide part.
	RelID string
}

// HighestSlideID returns the largest ID in refs, or 0 when refs is empty.
func HighestSlideID(refs []SlideRef) uint32 {
	var highest uint32
	for _, ref := range refs {
		if ref.ID > highest {
			highest = ref.ID
		}
	}
	return highest
}

// Presentation is the parsed presentation part of a package.
type Presentation struct {
	pkg  *opc.Package
	part *opc.Part
	doc  *etree.Document
	root *etree.Element
}

// Load locates and parses the presentation part through the package's
// officeDocument relationship.
func Load(pkg *opc.Package) (*Presentation, error) {
	rels, err := pkg.Relationships(opc.RootSource)
	if err != nil {
		return nil, err
	}
	docs := rels.ByType(RelOfficeDocument)
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s: no officeDocument relationship", opc.ErrPackageCorrupt, pkg.Path())
	}
	part, _, err := pkg.RelatedPart(opc.RootSource, docs[0].ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", opc.ErrPackageCorrupt, pkg.Path(), err)
	}
	data, err := part.Data()
	if err != nil {
		return nil, err
	}
	doc, err := opc.ParseXML(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s: %w", opc.ErrPackageCorrupt, pkg.Path(), part.Name(), err)
	}
	root := doc.Root()
	if !isElement(root, NSPresentation, "presentation") {
		return nil, fmt.Errorf("%w: %s: %s is not a presentation", opc.ErrPackageCorrupt, pkg.Path(), part.Name())
	}

	return &Presentation{pkg: pkg, part: part, doc: doc, root: root}, nil
}

// PartName returns the name of the presentation part.
func (p *Presentation) PartName() string {
	return p.part.Name()
}

// SlideRefs returns the slide index in presentation order. A presentation
// without p:sldIdLst has no slides.
func (p *Presentation) SlideRefs() ([]SlideRef, error) {
	list := findChild(p.root, NSPresentation, "sldIdLst")
	if list == nil {
		return nil, nil
	}

	entries := findChildren(list, NSPresentation, "sldId")
	refs := make([]SlideRef, 0, len(entries))
	for i, el := range entries {
		raw, _ := attrValue(el, "", "id")
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: slide entry %d has invalid id %q", opc.ErrPackageCorrupt, i+1, raw)
		}
		relID, ok := attrValue(el, NSRelationships, "id")
		if !ok || relID == "" {
			return nil, fmt.Errorf("%w: slide entry %d has no relationship id", opc.ErrPackageCorrupt, i+1)
		}
		refs = append(refs, SlideRef{Position: i + 1, ID: uint32(id), RelID: relID})
	}
	return refs, nil
}

// SlidePart resolves the part a slide entry points at.
func (p *Presentation) SlidePart(ref SlideRef) (*opc.Part, error) {
	part, _, err := p.pkg.RelatedPart(p.part.Name(), ref.RelID)
	if err != nil {
		return nil, fmt.Errorf("slide %d: %w", ref.Position, err)
	}
	return part, nil
}

// FirstMaster returns the first slide master, or nil when there is none.
func (p *Presentation) FirstMaster() (*opc.Part, error) {
	if list := findChild(p.root, NSPresentation, "sldMasterIdLst"); list != nil {
		for _, el := range findChildren(list, NSPresentation, "sldMasterId") {
			relID, ok := attrValue(el, NSRelationships, "id")
			if !ok {
				continue
			}
			if part, _, err := p.pkg.RelatedPart(p.part.Name(), relID); err == nil {
				return part, nil
			}
		}
	}
	return p.firstTarget(p.part.Name(), RelSlideMaster)
}

// FirstLayout returns the first layout of the first slide master, or nil
// when the presentation has no master or the master has no layouts.
func (p *Presentation) FirstLayout() (*opc.Part, error) {
	master, err := p.FirstMaster()
	if err != nil || master == nil {
		return nil, err
	}

	data, err := master.Data()
	if err != nil {
		return nil, err
	}
	doc, err := opc.ParseXML(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", opc.ErrPackageCorrupt, master.Name(), err)
	}
	if list := findChild(doc.Root(), NSPresentation, "sldLayoutIdLst"); list != nil {
		for _, el := range findChildren(list, NSPresentation, "sldLayoutId") {
			relID, ok := attrValue(el, NSRelationships, "id")
			if !ok {
				continue
			}
			if part, _, err := p.pkg.RelatedPart(master.Name(), relID); err == nil {
				return part, nil
			}
		}
	}
	return p.firstTarget(master.Name(), RelSlideLayout)
}

// firstTarget returns the first existing internal target of relType.
func (p *Presentation) firstTarget(source, relType string) (*opc.Part, error) {
	rels, err := p.pkg.Relationships(source)
	if err != nil {
		return nil, err
	}
	for _, rel := range rels.ByType(relType) {
		if rel.External() {
			continue
		}
		if part, err := p.pkg.Part(rels.TargetPart(rel)); err == nil {
			return part, nil
		}
	}
	return nil, nil
}

// AppendSlide adds a slide entry at the end of the index. relID must
// already name a slide relationship of the presentation part.
func (p *Presentation) AppendSlide(id uint32, relID string) (SlideRef, error) {
	if id > MaxSlideID {
		return SlideRef{}, fmt.Errorf("%w: %d", ErrSlideIDExhausted, id)
	}
	if id < MinSlideID {
		return SlideRef{}, fmt.Errorf("slide id %d below minimum %d", id, MinSlideID)
	}

	pfx := ensurePrefix(p.root, NSPresentation, "p", true)
	list := findChild(p.root, NSPresentation, "sldIdLst")
	if list == nil {
		list = etree.NewElement(qualify(pfx, "sldIdLst"))
		insertOrdered(p.root, list, presentationOrder)
	}
	r := ensurePrefix(p.root, NSRelationships, "r", false)

	el := list.CreateElement(qualify(pfx, "sldId"))
	el.CreateAttr("id", strconv.FormatUint(uint64(id), 10))
	el.CreateAttr(qualify(r, "id"), relID)

	return SlideRef{
		Position: len(findChildren(list, NSPresentation, "sldId")),
		ID:       id,
		RelID:    relID,
	}, nil
}

// SlideSize returns the p:sldSz extents.
func (p *Presentation) SlideSize() (cx, cy int64, ok bool) {
	el := findChild(p.root, NSPresentation, "sldSz")
	if el == nil {
		return 0, 0, false
	}
	cx, errX := strconv.ParseInt(el.SelectAttrValue("cx", ""), 10, 64)
	cy, errY := strconv.ParseInt(el.SelectAttrValue("cy", ""), 10, 64)
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return cx, cy, true
}

// EnsureSlideSize adds p:sldSz with the given extents when the element is
// missing. It reports whether the element was added.
func (p *Presentation) EnsureSlideSize(cx, cy int64) bool {
	if findChild(p.root, NSPresentation, "sldSz") != nil {
		return false
	}
	pfx := ensurePrefix(p.root, NSPresentation, "p", true)
	el := etree.NewElement(qualify(pfx, "sldSz"))
	el.CreateAttr("cx", strconv.FormatInt(cx, 10))
	el.CreateAttr("cy", strconv.FormatInt(cy, 10))
	insertOrdered(p.root, el, presentationOrder)
	return true
}

// Save serializes the tree back into the presentation part.
func (p *Presentation) Save() error {
	data, err := opc.MarshalXML(p.doc)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", p.part.Name(), err)
	}
	return p.pkg.SetData(p.part, data)
}

// Validate cross-checks the slide index against the presentation's
// relationships: IDs are unique, every entry has its own relationship, and
// that relationship is an internal slide relationship to an existing part.
func (p *Presentation) Validate() error {
	refs, err := p.SlideRefs()
	if err != nil {
		return err
	}
	rels, err := p.pkg.Relationships(p.part.Name())
	if err != nil {
		return err
	}

	var problems []string
	ids := make(map[uint32]int, len(refs))
	relIDs := make(map[string]int, len(refs))
	for _, ref := range refs {
		if prev, dup := ids[ref.ID]; dup {
			problems = append(problems, fmt.Sprintf("slide %d reuses id %d of slide %d", ref.Position, ref.ID, prev))
		}
		ids[ref.ID] = ref.Position

		if prev, dup := relIDs[ref.RelID]; dup {
			problems = append(problems, fmt.Sprintf("slide %d reuses relationship %s of slide %d", ref.Position, ref.RelID, prev))
		}
		relIDs[ref.RelID] = ref.Position

		rel, ok := rels.Get(ref.RelID)
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("slide %d: relationship %s missing", ref.Position, ref.RelID))
		case rel.Type != RelSlide:
			problems = append(problems, fmt.Sprintf("slide %d: relationship %s is not a slide relationship", ref.Position, ref.RelID))
		case rel.External() || !p.pkg.HasPart(rels.TargetPart(rel)):
			problems = append(problems, fmt.Sprintf("slide %d: relationship %s targets missing part %s", ref.Position, ref.RelID, rel.Target))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInconsistent, strings.Join(problems, "; "))
	}
	return nil
}
