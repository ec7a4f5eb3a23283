package opc

import (
	"fmt"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// xmlDeclaration is the declaration every part written by deckmerge carries.
const xmlDeclaration = `version="1.0" encoding="UTF-8" standalone="yes"`

// ParseXML parses an XML part payload. Non-UTF-8 encodings declared in the
// prolog are decoded through x/net/html/charset.
func ParseXML(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("no root element")
	}
	return doc, nil
}

// NewXMLDocument creates an empty document with the standard declaration.
func NewXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", xmlDeclaration)
	return doc
}

// MarshalXML serializes doc, adding the standard declaration when the
// document has none. Re-encoded documents are always UTF-8.
func MarshalXML(doc *etree.Document) ([]byte, error) {
	hasDecl := false
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			pi.Inst = xmlDeclaration
			hasDecl = true
			break
		}
	}
	if !hasDecl {
		decl := etree.NewProcInst("xml", xmlDeclaration)
		doc.InsertChildAt(0, decl)
	}
	return doc.WriteToBytes()
}
