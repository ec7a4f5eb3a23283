package opc

import (
	"fmt"
	"path"
	"strings"
)

// Well-known part names.
const (
	// ContentTypesPart is the content type stream. It is not a real part but
	// is addressed like one inside the package.
	ContentTypesPart = "/[Content_Types].xml"

	// RootSource is the pseudo source name of package-level relationships.
	RootSource = "/"
)

// partNameFromZip converts a zip entry name to a validated part name.
func partNameFromZip(entry string) (string, error) {
	name := "/" + entry
	if err := validatePartName(name); err != nil {
		return "", err
	}
	return name, nil
}

// zipName converts a part name to its zip entry name.
func zipName(part string) string {
	return strings.TrimPrefix(part, "/")
}

// validatePartName rejects names that could escape the archive or that
// are not valid part names.
func validatePartName(name string) error {
	if !strings.HasPrefix(name, "/") || name == "/" {
		return fmt.Errorf("invalid part name %q: must be absolute", name)
	}
	if strings.Contains(name, `\`) {
		return fmt.Errorf("invalid part name %q: backslash not allowed", name)
	}
	if strings.HasSuffix(name, "/") {
		return fmt.Errorf("invalid part name %q: trailing slash", name)
	}
	for _, seg := range strings.Split(name[1:], "/") {
		switch seg {
		case "":
			return fmt.Errorf("invalid part name %q: empty segment", name)
		case ".", "..":
			return fmt.Errorf("invalid part name %q: path traversal not allowed", name)
		}
	}
	return nil
}

// relsPartName returns the name of the relationships part for source.
//
//	/                        -> /_rels/.rels
//	/ppt/slides/slide1.xml   -> /ppt/slides/_rels/slide1.xml.rels
func relsPartName(source string) string {
	if source == RootSource {
		return "/_rels/.rels"
	}
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

// isRelsPart reports whether name is a relationships part.
func isRelsPart(name string) bool {
	dir, file := path.Split(name)
	return strings.HasSuffix(dir, "/_rels/") && strings.HasSuffix(file, ".rels")
}

// ResolveTarget turns a relationship target, relative to source, into an
// absolute part name.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(target)
	}
	return path.Join(path.Dir(source), target)
}

// RelativeTarget expresses the part name target relative to source, the form
// relationship targets are stored in.
func RelativeTarget(source, target string) string {
	if source == RootSource {
		return strings.TrimPrefix(target, "/")
	}
	from := strings.Split(strings.Trim(path.Dir(source), "/"), "/")
	to := strings.Split(strings.TrimPrefix(target, "/"), "/")
	if len(from) == 1 && from[0] == "" {
		from = nil
	}

	common := 0
	for common < len(from) && common < len(to)-1 && from[common] == to[common] {
		common++
	}

	var b strings.Builder
	for i := common; i < len(from); i++ {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(to[common:], "/"))
	return b.String()
}

// PartNameTemplate derives a numbered template from an existing part name by
// dropping trailing digits from the file stem:
//
//	/ppt/media/image12.png -> /ppt/media/image%d.png
func PartNameTemplate(name string) string {
	dir, file := path.Split(name)
	ext := path.Ext(file)
	stem := strings.TrimSuffix(file, ext)
	stem = strings.TrimRight(stem, "0123456789")
	stem = strings.ReplaceAll(stem, "%", "%%")
	ext = strings.ReplaceAll(ext, "%", "%%")
	return dir + stem + "%d" + ext
}
