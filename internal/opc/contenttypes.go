package opc

import (
	"fmt"
	"path"
	"strings"
)

// Content type constants used by the package layer.
const (
	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"

	// ContentTypeRelationships is the type of every .rels part.
	ContentTypeRelationships = "application/vnd.openxmlformats-package.relationships+xml"

	// ContentTypeXML is the generic XML default.
	ContentTypeXML = "application/xml"
)

// ContentTypes is the parsed [Content_Types].xml stream: extension defaults
// plus per-part overrides.
type ContentTypes struct {
	defaults      map[string]string
	defaultOrder  []string
	overrides     map[string]string
	overrideOrder []string
	dirty         bool
}

func newContentTypes() *ContentTypes {
	return &ContentTypes{
		defaults:  make(map[string]string),
		overrides: make(map[string]string),
	}
}

func parseContentTypes(data []byte) (*ContentTypes, error) {
	doc, err := ParseXML(data)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root.Tag != "Types" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	ct := newContentTypes()
	for _, el := range root.ChildElements() {
		switch el.Tag {
		case "Default":
			ext := strings.ToLower(el.SelectAttrValue("Extension", ""))
			typ := el.SelectAttrValue("ContentType", "")
			if ext == "" || typ == "" {
				return nil, fmt.Errorf("default entry without extension or content type")
			}
			if _, seen := ct.defaults[ext]; !seen {
				ct.defaultOrder = append(ct.defaultOrder, ext)
			}
			ct.defaults[ext] = typ
		case "Override":
			name := el.SelectAttrValue("PartName", "")
			typ := el.SelectAttrValue("ContentType", "")
			if name == "" || typ == "" {
				return nil, fmt.Errorf("override entry without part name or content type")
			}
			if _, seen := ct.overrides[name]; !seen {
				ct.overrideOrder = append(ct.overrideOrder, name)
			}
			ct.overrides[name] = typ
		}
	}
	return ct, nil
}

// Lookup returns the content type of a part, or "" if none is declared.
func (c *ContentTypes) Lookup(name string) string {
	if typ, ok := c.overrides[name]; ok {
		return typ
	}
	for override, typ := range c.overrides {
		if strings.EqualFold(override, name) {
			return typ
		}
	}
	return c.defaults[extension(name)]
}

// set declares typ for name. No override is written when the extension
// default already yields the same type.
func (c *ContentTypes) set(name, typ string) {
	if c.Lookup(name) == typ {
		return
	}
	if _, seen := c.overrides[name]; !seen {
		c.overrideOrder = append(c.overrideOrder, name)
	}
	c.overrides[name] = typ
	c.dirty = true
}

// ensureDefault adds an extension default if none exists.
func (c *ContentTypes) ensureDefault(ext, typ string) {
	ext = strings.ToLower(ext)
	if _, ok := c.defaults[ext]; ok {
		return
	}
	c.defaults[ext] = typ
	c.defaultOrder = append(c.defaultOrder, ext)
	c.dirty = true
}

func (c *ContentTypes) marshal() ([]byte, error) {
	doc := NewXMLDocument()
	root := doc.CreateElement("Types")
	root.CreateAttr("xmlns", nsContentTypes)
	for _, ext := range c.defaultOrder {
		el := root.CreateElement("Default")
		el.CreateAttr("Extension", ext)
		el.CreateAttr("ContentType", c.defaults[ext])
	}
	for _, name := range c.overrideOrder {
		el := root.CreateElement("Override")
		el.CreateAttr("PartName", name)
		el.CreateAttr("ContentType", c.overrides[name])
	}
	return MarshalXML(doc)
}

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}
