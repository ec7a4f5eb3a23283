// Package pptx reads and edits the PresentationML parts of a package opened
// with internal/opc: the slide index kept in presentation.xml, slide masters
// and layouts, and individual slide trees.
//
// Namespace prefixes are never assumed. Elements are matched by namespace
// URI and local name, and new elements reuse whatever prefix the document
// already declares for a namespace.
package pptx
