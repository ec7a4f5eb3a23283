package pptx

import (
	"fmt"
	"slices"

	"github.com/beevik/etree"
)

// lookupNamespace resolves prefix in the scope of el.
func lookupNamespace(el *etree.Element, prefix string) string {
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if a.Space == "xmlns" && a.Key == prefix {
				return a.Value
			}
		}
	}
	return ""
}

func elementNamespace(el *etree.Element) string {
	if el.Space == "" {
		for e := el; e != nil; e = e.Parent() {
			for _, a := range e.Attr {
				if a.Space == "" && a.Key == "xmlns" {
					return a.Value
				}
			}
		}
		return ""
	}
	return lookupNamespace(el, el.Space)
}

func isElement(el *etree.Element, uri, local string) bool {
	return el != nil && el.Tag == local && elementNamespace(el) == uri
}

func findChild(parent *etree.Element, uri, local string) *etree.Element {
	for _, c := range parent.ChildElements() {
		if isElement(c, uri, local) {
			return c
		}
	}
	return nil
}

func findChildren(parent *etree.Element, uri, local string) []*etree.Element {
	var out []*etree.Element
	for _, c := range parent.ChildElements() {
		if isElement(c, uri, local) {
			out = append(out, c)
		}
	}
	return out
}

// attrValue returns the attribute local in namespace uri. An empty uri
// selects an unprefixed attribute.
func attrValue(el *etree.Element, uri, local string) (string, bool) {
	for _, a := range el.Attr {
		if a.Key != local || a.Space == "xmlns" {
			continue
		}
		if uri == "" && a.Space == "" {
			return a.Value, true
		}
		if uri != "" && a.Space != "" && lookupNamespace(el, a.Space) == uri {
			return a.Value, true
		}
	}
	return "", false
}

// ensurePrefix returns the prefix root declares for uri, declaring
// preferred (or a numbered variant of it) when there is none. When
// allowDefault is set and uri is the default namespace, the empty prefix
// is returned.
func ensurePrefix(root *etree.Element, uri, preferred string, allowDefault bool) string {
	for _, a := range root.Attr {
		if a.Space == "xmlns" && a.Value == uri {
			return a.Key
		}
		if allowDefault && a.Space == "" && a.Key == "xmlns" && a.Value == uri {
			return ""
		}
	}

	prefix := preferred
	for n := 1; lookupNamespace(root, prefix) != ""; n++ {
		prefix = fmt.Sprintf("%s%d", preferred, n)
	}
	root.CreateAttr("xmlns:"+prefix, uri)
	return prefix
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// insertOrdered adds el under parent before the first sibling that the
// schema order places after it.
func insertOrdered(parent, el *etree.Element, order []string) {
	rank := slices.Index(order, el.Tag)
	for _, c := range parent.ChildElements() {
		if elementNamespace(c) != NSPresentation {
			continue
		}
		if r := slices.Index(order, c.Tag); r > rank {
			parent.InsertChildAt(c.Index(), el)
			return
		}
	}
	parent.AddChild(el)
}
