package pptx

import (
	"slices"
	"strings"

	"github.com/beevik/etree"

	"github.com/danieljhkim/deckmerge/internal/opc"
)

// ParseSlide parses a slide part payload.
func ParseSlide(data []byte) (*etree.Document, error) {
	return opc.ParseXML(data)
}

// HasContent reports whether doc is a p:sld with a p:cSld child.
func HasContent(doc *etree.Document) bool {
	root := doc.Root()
	if !isElement(root, NSPresentation, "sld") {
		return false
	}
	return findChild(root, NSPresentation, "cSld") != nil
}

// MinimalSlide builds an empty slide: a shape tree holding only the
// mandatory group properties.
func MinimalSlide() *etree.Document {
	doc := opc.NewXMLDocument()
	sld := doc.CreateElement("p:sld")
	sld.CreateAttr("xmlns:a", NSDrawing)
	sld.CreateAttr("xmlns:r", NSRelationships)
	sld.CreateAttr("xmlns:p", NSPresentation)

	tree := sld.CreateElement("p:cSld").CreateElement("p:spTree")
	nv := tree.CreateElement("p:nvGrpSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", "1")
	cNvPr.CreateAttr("name", "")
	nv.CreateElement("p:cNvGrpSpPr")
	nv.CreateElement("p:nvPr")
	tree.CreateElement("p:grpSpPr").CreateElement("a:xfrm")

	sld.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")
	return doc
}

// Relink rewrites every attribute in the relationships namespace through
// ids (old relationship ID to new). Attributes whose ID has no mapping are
// removed; their values are returned sorted and deduplicated.
func Relink(doc *etree.Document, ids map[string]string) []string {
	var unresolved []string
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for i := 0; i < len(el.Attr); {
			a := el.Attr[i]
			if a.Space == "" || a.Space == "xmlns" || lookupNamespace(el, a.Space) != NSRelationships {
				i++
				continue
			}
			if id, ok := ids[a.Value]; ok {
				el.Attr[i].Value = id
				i++
				continue
			}
			unresolved = append(unresolved, a.Value)
			el.Attr = slices.Delete(el.Attr, i, i+1)
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(doc.Root())

	slices.Sort(unresolved)
	return slices.Compact(unresolved)
}

// References returns the distinct relationship IDs referenced from doc in
// document order.
func References(doc *etree.Document) []string {
	var refs []string
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, a := range el.Attr {
			if a.Space == "" || a.Space == "xmlns" || lookupNamespace(el, a.Space) != NSRelationships {
				continue
			}
			if !slices.Contains(refs, a.Value) {
				refs = append(refs, a.Value)
			}
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(doc.Root())
	return refs
}

// Text joins the a:t runs of a slide, one paragraph per line.
func Text(doc *etree.Document) string {
	var paras []string
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if isElement(el, NSDrawing, "p") {
			var b strings.Builder
			for _, t := range el.FindElements(".//t") {
				if elementNamespace(t) == NSDrawing {
					b.WriteString(t.Text())
				}
			}
			if s := strings.TrimSpace(b.String()); s != "" {
				paras = append(paras, s)
			}
			return
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	if root := doc.Root(); root != nil {
		walk(root)
	}
	return strings.Join(paras, "\n")
}
