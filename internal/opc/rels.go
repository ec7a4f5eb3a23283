package opc

import (
	"fmt"
)

const nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"

// TargetModeExternal marks a relationship whose target is outside the package.
const TargetModeExternal = "External"

// Relationship is a typed link from a source part to a target part or URI.
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode string
}

// External reports whether the target is an external resource.
func (r *Relationship) External() bool {
	return r.TargetMode == TargetModeExternal
}

// Relationships is the relationship set of one source part.
type Relationships struct {
	source string
	items  []*Relationship
	byID   map[string]*Relationship
	ids    *RelIDAllocator
	dirty  bool
}

func newRelationships(source string) *Relationships {
	return &Relationships{
		source: source,
		byID:   make(map[string]*Relationship),
		ids:    NewRelIDAllocator(nil),
	}
}

func parseRelationships(source string, data []byte) (*Relationships, error) {
	doc, err := ParseXML(data)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root.Tag != "Relationships" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	rels := newRelationships(source)
	var ids []string
	for _, el := range root.SelectElements("Relationship") {
		rel := &Relationship{
			ID:         el.SelectAttrValue("Id", ""),
			Type:       el.SelectAttrValue("Type", ""),
			Target:     el.SelectAttrValue("Target", ""),
			TargetMode: el.SelectAttrValue("TargetMode", ""),
		}
		if rel.ID == "" || rel.Type == "" || rel.Target == "" {
			return nil, fmt.Errorf("relationship without id, type or target")
		}
		if _, dup := rels.byID[rel.ID]; dup {
			return nil, fmt.Errorf("duplicate relationship id %q", rel.ID)
		}
		rels.items = append(rels.items, rel)
		rels.byID[rel.ID] = rel
		ids = append(ids, rel.ID)
	}
	rels.ids = NewRelIDAllocator(ids)
	return rels, nil
}

// Source returns the name of the part owning this set.
func (r *Relationships) Source() string {
	return r.source
}

// Len returns the number of relationships.
func (r *Relationships) Len() int {
	return len(r.items)
}

// Get returns the relationship with the given ID.
func (r *Relationships) Get(id string) (*Relationship, bool) {
	rel, ok := r.byID[id]
	return rel, ok
}

// All returns the relationships in document order.
func (r *Relationships) All() []*Relationship {
	out := make([]*Relationship, len(r.items))
	copy(out, r.items)
	return out
}

// ByType returns the relationships of one type in document order.
func (r *Relationships) ByType(relType string) []*Relationship {
	var out []*Relationship
	for _, rel := range r.items {
		if rel.Type == relType {
			out = append(out, rel)
		}
	}
	return out
}

// TargetPart resolves an internal relationship to the absolute part name.
func (r *Relationships) TargetPart(rel *Relationship) string {
	return ResolveTarget(r.source, rel.Target)
}

// add appends a relationship with a freshly allocated ID.
func (r *Relationships) add(relType, target, mode string) *Relationship {
	rel := &Relationship{
		ID:         r.ids.Next(),
		Type:       relType,
		Target:     target,
		TargetMode: mode,
	}
	r.items = append(r.items, rel)
	r.byID[rel.ID] = rel
	r.dirty = true
	return rel
}

// addWithID appends a relationship that keeps a caller-chosen ID.
func (r *Relationships) addWithID(id, relType, target, mode string) (*Relationship, error) {
	if !r.ids.Reserve(id) {
		return nil, fmt.Errorf("relationship id %q already used in %s", id, r.source)
	}
	rel := &Relationship{ID: id, Type: relType, Target: target, TargetMode: mode}
	r.items = append(r.items, rel)
	r.byID[rel.ID] = rel
	r.dirty = true
	return rel, nil
}

func (r *Relationships) marshal() ([]byte, error) {
	doc := NewXMLDocument()
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelationships)
	for _, rel := range r.items {
		el := root.CreateElement("Relationship")
		el.CreateAttr("Id", rel.ID)
		el.CreateAttr("Type", rel.Type)
		el.CreateAttr("Target", rel.Target)
		if rel.TargetMode != "" {
			el.CreateAttr("TargetMode", rel.TargetMode)
		}
	}
	return MarshalXML(doc)
}
