// Package pptxtest writes small but structurally complete .pptx packages for
// tests. Every slide carries a text marker so tests can tell which source
// slide ended up where.
package pptxtest

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

// Namespace and relationship type URIs used in the generated XML.
const (
	NSPresentation = "http://schemas.openxmlformats.org/presentationml/2006/main"
	NSDrawing      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSRel          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relBase          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	RelOfficeDoc     = relBase + "officeDocument"
	RelSlide         = relBase + "slide"
	RelSlideLayout   = relBase + "slideLayout"
	RelSlideMaster   = relBase + "slideMaster"
	RelImage         = relBase + "image"
	RelHyperlink     = relBase + "hyperlink"
	RelNotesSlide    = relBase + "notesSlide"
	RelChart         = relBase + "chart"
	RelPackage       = relBase + "package"
	ctPresentation   = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide          = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideLayout    = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlideMaster    = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctNotesSlide     = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"
	ctChart          = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
	ctWorkbook       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ctRelationships  = "application/vnd.openxmlformats-package.relationships+xml"
	xmlDecl          = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	nsDecls          = `xmlns:a="` + NSDrawing + `" xmlns:r="` + NSRel + `" xmlns:p="` + NSPresentation + `"`
	defaultFirstID   = 256
	defaultImageData = "\x89PNG\r\n\x1a\nfake-image-payload"
)

// Deck describes a presentation to generate.
type Deck struct {
	// Name prefixes every slide marker.
	Name string

	// Slides is the number of slides.
	Slides int

	// FirstSlideID is the ID of slide 1; later slides count up. Default 256.
	FirstSlideID uint32

	// Layouts is the number of layouts under the single master. Default 1.
	Layouts int

	// NoMaster omits the slide master and layouts entirely.
	NoMaster bool

	// OmitSlideSize leaves p:sldSz out of presentation.xml.
	OmitSlideSize bool

	// ImageSlides get a picture referencing a shared media part.
	ImageSlides []int

	// HyperlinkSlides get a shape with an external hyperlink.
	HyperlinkSlides []int

	// ChartSlides get a chart part of their own. The chart XML is the same
	// on every slide; each chart embeds a different workbook.
	ChartSlides []int

	// NotesSlides get a notes slide part.
	NotesSlides []int

	// MalformedSlides are well-formed XML without a p:cSld element.
	MalformedSlides []int

	// BrokenSlides are not well-formed XML at all.
	BrokenSlides []int

	// DanglingRefSlides reference a relationship ID that does not exist.
	DanglingRefSlides []int
}

// ChartXML is the body of every generated chart part.
const ChartXML = xmlDecl + `<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" ` +
	`xmlns:r="` + NSRel + `"><c:chart/><c:externalData r:id="rId1"/></c:chartSpace>`

// Workbook returns the embedded workbook payload of the chart on slide n.
func Workbook(n int) string {
	return fmt.Sprintf("WORKBOOK-%d", n)
}

// Entry is one zip member.
type Entry struct {
	Name string
	Body string
}

// Marker returns the text placed on slide n of the named deck.
func Marker(name string, n int) string {
	return fmt.Sprintf("%s slide %d", name, n)
}

// Write generates d at path.
func Write(tb testing.TB, path string, d Deck) {
	tb.Helper()
	WriteEntries(tb, path, d.Entries())
}

// WriteEntries writes an arbitrary archive, for corrupt-package tests.
func WriteEntries(tb testing.TB, path string, entries []Entry) {
	tb.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		tb.Fatalf("failed to create directory: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("failed to create %s: %v", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	zw := zip.NewWriter(f)
	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Deflate, Modified: stamp})
		if err != nil {
			tb.Fatalf("failed to add %s: %v", e.Name, err)
		}
		if _, err := w.Write([]byte(e.Body)); err != nil {
			tb.Fatalf("failed to write %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("failed to finish %s: %v", path, err)
	}
}

// Entries renders the deck's zip members in a conventional order.
func (d Deck) Entries() []Entry {
	firstID := d.FirstSlideID
	if firstID == 0 {
		firstID = defaultFirstID
	}
	layouts := d.Layouts
	if d.NoMaster {
		layouts = 0
	} else if layouts == 0 {
		layouts = 1
	}

	var entries []Entry
	add := func(name, body string) {
		entries = append(entries, Entry{Name: name, Body: body})
	}

	// [Content_Types].xml
	var ct strings.Builder
	ct.WriteString(xmlDecl)
	ct.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	ct.WriteString(`<Default Extension="rels" ContentType="` + ctRelationships + `"/>`)
	ct.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	ct.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	ct.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="` + ctPresentation + `"/>`)
	if !d.NoMaster {
		ct.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="` + ctSlideMaster + `"/>`)
	}
	for l := 1; l <= layouts; l++ {
		fmt.Fprintf(&ct, `<Override PartName="/ppt/slideLayouts/slideLayout%d.xml" ContentType="%s"/>`, l, ctSlideLayout)
	}
	for s := 1; s <= d.Slides; s++ {
		fmt.Fprintf(&ct, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="%s"/>`, s, ctSlide)
	}
	if len(d.ChartSlides) > 0 {
		ct.WriteString(`<Default Extension="xlsx" ContentType="` + ctWorkbook + `"/>`)
	}
	for _, s := range d.ChartSlides {
		fmt.Fprintf(&ct, `<Override PartName="/ppt/charts/chart%d.xml" ContentType="%s"/>`, s, ctChart)
	}
	for _, s := range d.NotesSlides {
		fmt.Fprintf(&ct, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="%s"/>`, s, ctNotesSlide)
	}
	ct.WriteString(`</Types>`)
	add("[Content_Types].xml", ct.String())

	add("_rels/.rels", rels([]rel{{"rId1", RelOfficeDoc, "ppt/presentation.xml", false}}))

	// presentation.xml + rels
	var pres strings.Builder
	var presRels []rel
	pres.WriteString(xmlDecl)
	pres.WriteString(`<p:presentation ` + nsDecls + ` saveSubsetFonts="1">`)
	next := 1
	if !d.NoMaster {
		fmt.Fprintf(&pres, `<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId%d"/></p:sldMasterIdLst>`, next)
		presRels = append(presRels, rel{fmt.Sprintf("rId%d", next), RelSlideMaster, "slideMasters/slideMaster1.xml", false})
		next++
	}
	if d.Slides > 0 {
		pres.WriteString(`<p:sldIdLst>`)
		for s := 1; s <= d.Slides; s++ {
			fmt.Fprintf(&pres, `<p:sldId id="%d" r:id="rId%d"/>`, firstID+uint32(s-1), next)
			presRels = append(presRels, rel{fmt.Sprintf("rId%d", next), RelSlide, fmt.Sprintf("slides/slide%d.xml", s), false})
			next++
		}
		pres.WriteString(`</p:sldIdLst>`)
	}
	if !d.OmitSlideSize {
		pres.WriteString(`<p:sldSz cx="12192000" cy="6858000"/>`)
	}
	pres.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	pres.WriteString(`</p:presentation>`)
	add("ppt/presentation.xml", pres.String())
	add("ppt/_rels/presentation.xml.rels", rels(presRels))

	// master + layouts
	if !d.NoMaster {
		var master strings.Builder
		var masterRels []rel
		master.WriteString(xmlDecl)
		master.WriteString(`<p:sldMaster ` + nsDecls + `>` + spTree("master") + `<p:sldLayoutIdLst>`)
		for l := 1; l <= layouts; l++ {
			fmt.Fprintf(&master, `<p:sldLayoutId id="%d" r:id="rId%d"/>`, 2147483648+uint64(l), l)
			masterRels = append(masterRels, rel{fmt.Sprintf("rId%d", l), RelSlideLayout, fmt.Sprintf("../slideLayouts/slideLayout%d.xml", l), false})
		}
		master.WriteString(`</p:sldLayoutIdLst></p:sldMaster>`)
		add("ppt/slideMasters/slideMaster1.xml", master.String())
		add("ppt/slideMasters/_rels/slideMaster1.xml.rels", rels(masterRels))

		for l := 1; l <= layouts; l++ {
			body := xmlDecl + `<p:sldLayout ` + nsDecls + `>` + spTree(fmt.Sprintf("%s layout %d", d.Name, l)) + `</p:sldLayout>`
			add(fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", l), body)
			add(fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", l),
				rels([]rel{{"rId1", RelSlideMaster, "../slideMasters/slideMaster1.xml", false}}))
		}
	}

	// slides
	usesImage := false
	for s := 1; s <= d.Slides; s++ {
		var slideRels []rel
		if !d.NoMaster {
			slideRels = append(slideRels, rel{"rId1", RelSlideLayout, "../slideLayouts/slideLayout1.xml", false})
		}
		var extra strings.Builder
		if slices.Contains(d.ImageSlides, s) {
			usesImage = true
			slideRels = append(slideRels, rel{"rId7", RelImage, "../media/image1.png", false})
			extra.WriteString(`<p:pic><p:nvPicPr><p:cNvPr id="4" name="Picture"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>` +
				`<p:blipFill><a:blip r:embed="rId7"/></p:blipFill><p:spPr/></p:pic>`)
		}
		if slices.Contains(d.HyperlinkSlides, s) {
			slideRels = append(slideRels, rel{"rId8", RelHyperlink, "https://example.com/deck", true})
			extra.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="5" name="Link"><a:hlinkClick r:id="rId8"/></p:cNvPr>` +
				`<p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/></p:sp>`)
		}
		if slices.Contains(d.ChartSlides, s) {
			slideRels = append(slideRels, rel{"rId10", RelChart, fmt.Sprintf("../charts/chart%d.xml", s), false})
			extra.WriteString(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="7" name="Chart"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>` +
				`<p:xfrm/><a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/chart">` +
				`<c:chart xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" r:id="rId10"/>` +
				`</a:graphicData></a:graphic></p:graphicFrame>`)
		}
		if slices.Contains(d.NotesSlides, s) {
			slideRels = append(slideRels, rel{"rId9", RelNotesSlide, fmt.Sprintf("../notesSlides/notesSlide%d.xml", s), false})
		}
		if slices.Contains(d.DanglingRefSlides, s) {
			extra.WriteString(`<p:pic><p:nvPicPr><p:cNvPr id="6" name="Ghost"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>` +
				`<p:blipFill><a:blip r:embed="rId99"/></p:blipFill><p:spPr/></p:pic>`)
		}

		var body string
		switch {
		case slices.Contains(d.BrokenSlides, s):
			body = xmlDecl + `<p:sld ` + nsDecls + `><p:cSld><p:spTree>`
		case slices.Contains(d.MalformedSlides, s):
			body = xmlDecl + `<p:sld ` + nsDecls + `><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`
		default:
			body = xmlDecl + `<p:sld ` + nsDecls + `><p:cSld><p:spTree>` + groupProps() +
				textShape(Marker(d.Name, s)) + extra.String() +
				`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`
		}
		add(fmt.Sprintf("ppt/slides/slide%d.xml", s), body)
		if len(slideRels) > 0 {
			add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", s), rels(slideRels))
		}
	}

	for _, s := range d.NotesSlides {
		add(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", s),
			xmlDecl+`<p:notes `+nsDecls+`>`+spTree(fmt.Sprintf("%s notes %d", d.Name, s))+`</p:notes>`)
		add(fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", s),
			rels([]rel{{"rId1", RelSlide, fmt.Sprintf("../slides/slide%d.xml", s), false}}))
	}

	for _, s := range d.ChartSlides {
		add(fmt.Sprintf("ppt/charts/chart%d.xml", s), ChartXML)
		add(fmt.Sprintf("ppt/charts/_rels/chart%d.xml.rels", s),
			rels([]rel{{"rId1", RelPackage, fmt.Sprintf("../embeddings/data%d.xlsx", s), false}}))
		add(fmt.Sprintf("ppt/embeddings/data%d.xlsx", s), Workbook(s))
	}

	if usesImage {
		add("ppt/media/image1.png", defaultImageData)
	}
	return entries
}

type rel struct {
	id, typ, target string
	external        bool
}

func rels(items []rel) string {
	var b strings.Builder
	b.WriteString(xmlDecl)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range items {
		mode := ""
		if r.external {
			mode = ` TargetMode="External"`
		}
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"%s/>`, r.id, r.typ, r.target, mode)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func groupProps() string {
	return `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm/></p:grpSpPr>`
}

func textShape(text string) string {
	return `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sp>`
}

func spTree(text string) string {
	return `<p:cSld><p:spTree>` + groupProps() + textShape(text) + `</p:spTree></p:cSld>`
}
