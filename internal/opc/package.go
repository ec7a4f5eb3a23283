// Package opc reads and writes Open Packaging Convention archives.
//
// A package is a zip archive of named parts plus a relationship graph
// stored in _rels/*.rels parts and a [Content_Types].xml stream. The
// package keeps the archive open while it is in use, loads part payloads
// on demand, and tracks every mutation so Commit only re-encodes what
// changed. Untouched parts are copied with their original compressed bytes.
//
// Key components:
//   - Package: part table, content types and relationship sets
//   - Relationships: one part's relationship set with its ID allocator
//   - Counter / RelIDAllocator: monotonic identifier allocation
//   - Commit: consistency check followed by an atomic write through fsops
package opc

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/danieljhkim/deckmerge/internal/clock"
	"github.com/danieljhkim/deckmerge/internal/fsops"
)

var (
	// ErrPackageCorrupt indicates the archive or a required root part is unreadable.
	ErrPackageCorrupt = errors.New("package corrupt")

	// ErrReadOnly indicates a mutation on a package opened read-only.
	ErrReadOnly = errors.New("package is read-only")

	// ErrClosed indicates use of a closed package.
	ErrClosed = errors.New("package is closed")

	// ErrPartNotFound indicates a part name that is not in the package.
	ErrPartNotFound = errors.New("part not found")

	// ErrPartExists indicates an attempt to add a part under a taken name.
	ErrPartExists = errors.New("part already exists")

	// ErrDanglingRelationship indicates a relationship whose target part is missing.
	ErrDanglingRelationship = errors.New("dangling relationship")
)

// Mode selects how a package is opened.
type Mode int

const (
	// ReadOnly packages reject every mutation.
	ReadOnly Mode = iota

	// ReadWrite packages accept mutations in memory; Commit persists them.
	ReadWrite
)

func (m Mode) String() string {
	if m == ReadWrite {
		return "read-write"
	}
	return "read-only"
}

// Part is a named payload inside a package.
type Part struct {
	name   string
	zf     *zip.File
	data   []byte
	loaded bool
	dirty  bool
}

// Name returns the absolute part name, e.g. /ppt/slides/slide1.xml.
func (p *Part) Name() string {
	return p.name
}

// Data returns the part payload, reading it from the archive on first use.
func (p *Part) Data() ([]byte, error) {
	if p.loaded {
		return p.data, nil
	}
	rc, err := p.zf.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", p.name, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", p.name, err)
	}
	p.data = data
	p.loaded = true
	return data, nil
}

// Modified reports whether the payload was replaced since Open.
func (p *Part) Modified() bool {
	return p.dirty
}

// Package is an open OPC archive.
type Package struct {
	path   string
	mode   Mode
	zr     *zip.ReadCloser
	parts  map[string]*Part
	order  []string
	types  *ContentTypes
	rels   map[string]*Relationships
	clock  clock.Clock
	closed bool
}

// Option configures Open.
type Option func(*Package)

// WithClock sets the clock used to timestamp new and modified parts.
func WithClock(c clock.Clock) Option {
	return func(p *Package) {
		p.clock = c
	}
}

// Open opens the package at path. The archive handle stays open until Close.
func Open(path string, mode Mode, opts ...Option) (*Package, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if zr != nil {
			_ = zr.Close()
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrPackageCorrupt, path, err)
	}

	p := &Package{
		path:  path,
		mode:  mode,
		zr:    zr,
		parts: make(map[string]*Part, len(zr.File)),
		rels:  make(map[string]*Relationships),
		clock: &clock.RealClock{},
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.load(); err != nil {
		_ = zr.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrPackageCorrupt, path, err)
	}
	return p, nil
}

func (p *Package) load() error {
	for _, f := range p.zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		name, err := partNameFromZip(f.Name)
		if err != nil {
			return err
		}
		if _, dup := p.parts[strings.ToLower(name)]; dup {
			return fmt.Errorf("duplicate part name %q", name)
		}
		p.parts[strings.ToLower(name)] = &Part{name: name, zf: f}
		p.order = append(p.order, name)
	}

	ctPart, ok := p.parts[strings.ToLower(ContentTypesPart)]
	if !ok {
		return fmt.Errorf("missing %s", ContentTypesPart)
	}
	data, err := ctPart.Data()
	if err != nil {
		return err
	}
	if p.types, err = parseContentTypes(data); err != nil {
		return fmt.Errorf("invalid %s: %w", ContentTypesPart, err)
	}

	if !p.HasPart(relsPartName(RootSource)) {
		return fmt.Errorf("missing package relationships %s", relsPartName(RootSource))
	}
	if _, err := p.Relationships(RootSource); err != nil {
		return err
	}
	return nil
}

// Path returns the file the package was opened from.
func (p *Package) Path() string {
	return p.path
}

// Mode returns the open mode.
func (p *Package) Mode() Mode {
	return p.mode
}

// Close releases the archive handle. It is safe to call more than once.
func (p *Package) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.zr.Close()
}

// HasPart reports whether a part exists. Part names compare case-insensitively.
func (p *Package) HasPart(name string) bool {
	_, ok := p.parts[strings.ToLower(name)]
	return ok
}

// Part returns the named part.
func (p *Package) Part(name string) (*Part, error) {
	part, ok := p.parts[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	return part, nil
}

// PartNames returns all part names in archive order, new parts last.
func (p *Package) PartNames() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// ContentType returns the declared content type of a part.
func (p *Package) ContentType(name string) string {
	return p.types.Lookup(name)
}

// Relationships returns the relationship set of source, parsing it on first
// use. A part without a relationships part has an empty set.
func (p *Package) Relationships(source string) (*Relationships, error) {
	if rels, ok := p.rels[source]; ok {
		return rels, nil
	}

	relsName := relsPartName(source)
	part, ok := p.parts[strings.ToLower(relsName)]
	if !ok {
		rels := newRelationships(source)
		p.rels[source] = rels
		return rels, nil
	}
	data, err := part.Data()
	if err != nil {
		return nil, err
	}
	rels, err := parseRelationships(source, data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %w", ErrPackageCorrupt, relsName, err)
	}
	p.rels[source] = rels
	return rels, nil
}

// RelatedPart resolves relationship id of source to its target part.
func (p *Package) RelatedPart(source, id string) (*Part, *Relationship, error) {
	rels, err := p.Relationships(source)
	if err != nil {
		return nil, nil, err
	}
	rel, ok := rels.Get(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s has no relationship %q", ErrDanglingRelationship, source, id)
	}
	if rel.External() {
		return nil, rel, fmt.Errorf("relationship %q of %s is external", id, source)
	}
	part, err := p.Part(rels.TargetPart(rel))
	if err != nil {
		return nil, rel, fmt.Errorf("%w: %s -> %s", ErrDanglingRelationship, source, rel.Target)
	}
	return part, rel, nil
}

func (p *Package) checkWritable() error {
	if p.closed {
		return ErrClosed
	}
	if p.mode != ReadWrite {
		return fmt.Errorf("%w: %s", ErrReadOnly, p.path)
	}
	return nil
}

// NextPartName returns the first unused name produced by a %d template,
// counting from 1.
func (p *Package) NextPartName(template string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf(template, n)
		if !p.HasPart(name) {
			return name
		}
	}
}

// AddPart adds a new part and declares its content type.
func (p *Package) AddPart(name, contentType string, data []byte) (*Part, error) {
	if err := p.checkWritable(); err != nil {
		return nil, err
	}
	if err := validatePartName(name); err != nil {
		return nil, err
	}
	if p.HasPart(name) {
		return nil, fmt.Errorf("%w: %s", ErrPartExists, name)
	}
	if contentType == "" {
		return nil, fmt.Errorf("part %s has no content type", name)
	}

	part := &Part{name: name, data: data, loaded: true, dirty: true}
	p.parts[strings.ToLower(name)] = part
	p.order = append(p.order, name)
	p.types.set(name, contentType)
	return part, nil
}

// SetData replaces the payload of an existing part.
func (p *Package) SetData(part *Part, data []byte) error {
	if err := p.checkWritable(); err != nil {
		return err
	}
	part.data = data
	part.loaded = true
	part.dirty = true
	return nil
}

// AddRelationship links source to the part named target and returns the new
// relationship ID, unique within source's relationship set.
func (p *Package) AddRelationship(source, relType, target string) (string, error) {
	if err := p.checkWritable(); err != nil {
		return "", err
	}
	if !p.HasPart(target) {
		return "", fmt.Errorf("%w: %s -> %s", ErrPartNotFound, source, target)
	}
	rels, err := p.Relationships(source)
	if err != nil {
		return "", err
	}
	return rels.add(relType, RelativeTarget(source, target), "").ID, nil
}

// AddRelationshipWithID links source to target under a caller-chosen ID.
// It is meant for freshly created parts whose content already refers to id.
func (p *Package) AddRelationshipWithID(source, id, relType, target string) error {
	if err := p.checkWritable(); err != nil {
		return err
	}
	if !p.HasPart(target) {
		return fmt.Errorf("%w: %s -> %s", ErrPartNotFound, source, target)
	}
	rels, err := p.Relationships(source)
	if err != nil {
		return err
	}
	_, err = rels.addWithID(id, relType, RelativeTarget(source, target), "")
	return err
}

// AddExternalRelationship links source to an external URI.
func (p *Package) AddExternalRelationship(source, relType, uri string) (string, error) {
	if err := p.checkWritable(); err != nil {
		return "", err
	}
	rels, err := p.Relationships(source)
	if err != nil {
		return "", err
	}
	return rels.add(relType, uri, TargetModeExternal).ID, nil
}

// AddExternalRelationshipWithID is AddExternalRelationship with a fixed ID.
func (p *Package) AddExternalRelationshipWithID(source, id, relType, uri string) error {
	if err := p.checkWritable(); err != nil {
		return err
	}
	rels, err := p.Relationships(source)
	if err != nil {
		return err
	}
	_, err = rels.addWithID(id, relType, uri, TargetModeExternal)
	return err
}

// Verify checks the referential consistency of everything mutated since Open:
// every internal target of a changed relationship set must exist, and every
// changed part must have a content type.
func (p *Package) Verify() error {
	sources := make([]string, 0, len(p.rels))
	for source, rels := range p.rels {
		if rels.dirty {
			sources = append(sources, source)
		}
	}
	sort.Strings(sources)

	for _, source := range sources {
		rels := p.rels[source]
		if source != RootSource && !p.HasPart(source) {
			return fmt.Errorf("%w: relationships for missing part %s", ErrDanglingRelationship, source)
		}
		for _, rel := range rels.items {
			if rel.External() {
				continue
			}
			if !p.HasPart(rels.TargetPart(rel)) {
				return fmt.Errorf("%w: %s %s -> %s", ErrDanglingRelationship, source, rel.ID, rel.Target)
			}
		}
	}

	for _, name := range p.order {
		part := p.parts[strings.ToLower(name)]
		if !part.dirty || name == ContentTypesPart || isRelsPart(name) {
			continue
		}
		if p.types.Lookup(name) == "" {
			return fmt.Errorf("part %s has no content type", name)
		}
	}
	return nil
}

// Commit verifies the package and writes it atomically to dest. On failure
// dest is left untouched.
func (p *Package) Commit(fs fsops.FS, dest string) error {
	if err := p.checkWritable(); err != nil {
		return err
	}
	if err := p.Verify(); err != nil {
		return err
	}
	if err := p.flush(); err != nil {
		return err
	}
	return fs.AtomicWriteFunc(dest, 0644, p.writeTo)
}

// flush serializes changed relationship sets and content types into parts.
func (p *Package) flush() error {
	sources := make([]string, 0, len(p.rels))
	for source, rels := range p.rels {
		if rels.dirty {
			sources = append(sources, source)
		}
	}
	sort.Strings(sources)

	for _, source := range sources {
		data, err := p.rels[source].marshal()
		if err != nil {
			return fmt.Errorf("failed to encode relationships of %s: %w", source, err)
		}
		name := relsPartName(source)
		if part, ok := p.parts[strings.ToLower(name)]; ok {
			part.data, part.loaded, part.dirty = data, true, true
			continue
		}
		p.types.ensureDefault("rels", ContentTypeRelationships)
		p.parts[strings.ToLower(name)] = &Part{name: name, data: data, loaded: true, dirty: true}
		p.order = append(p.order, name)
	}

	if p.types.dirty {
		data, err := p.types.marshal()
		if err != nil {
			return fmt.Errorf("failed to encode content types: %w", err)
		}
		part := p.parts[strings.ToLower(ContentTypesPart)]
		part.data, part.loaded, part.dirty = data, true, true
	}
	return nil
}

// writeTo streams the archive. [Content_Types].xml is always the first entry.
func (p *Package) writeTo(w io.Writer) error {
	zw := zip.NewWriter(w)

	names := make([]string, 0, len(p.order))
	names = append(names, ContentTypesPart)
	for _, name := range p.order {
		if !strings.EqualFold(name, ContentTypesPart) {
			names = append(names, name)
		}
	}

	for _, name := range names {
		part := p.parts[strings.ToLower(name)]
		if !part.dirty && part.zf != nil {
			if err := zw.Copy(part.zf); err != nil {
				return fmt.Errorf("failed to copy part %s: %w", name, err)
			}
			continue
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     zipName(part.name),
			Method:   zip.Deflate,
			Modified: p.clock.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to create part %s: %w", name, err)
		}
		if _, err := fw.Write(part.data); err != nil {
			return fmt.Errorf("failed to write part %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}
