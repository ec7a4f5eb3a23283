package pptx

// XML namespaces.
const (
	NSPresentation  = "http://schemas.openxmlformats.org/presentationml/2006/main"
	NSDrawing       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

const relBase = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"

// Relationship types.
const (
	RelOfficeDocument = relBase + "officeDocument"
	RelSlide          = relBase + "slide"
	RelSlideLayout    = relBase + "slideLayout"
	RelSlideMaster    = relBase + "slideMaster"
	RelNotesSlide     = relBase + "notesSlide"
	RelComments       = relBase + "comments"
	RelImage          = relBase + "image"
	RelHyperlink      = relBase + "hyperlink"

	// RelModernComments is the threaded comments type written by newer
	// versions of PowerPoint.
	RelModernComments = "http://schemas.microsoft.com/office/2018/10/relationships/comments"
)

// ContentTypeSlide is the content type of a slide part.
const ContentTypeSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"

// SlidePartTemplate names new slide parts.
const SlidePartTemplate = "/ppt/slides/slide%d.xml"

// Default slide size in EMU (10in x 7.5in, 4:3).
const (
	DefaultSlideWidth  int64 = 9144000
	DefaultSlideHeight int64 = 6858000
)

// Valid range of p:sldId/@id.
const (
	MinSlideID uint32 = 256
	MaxSlideID uint32 = 2147483647
)

// presentationOrder is the schema order of p:presentation children.
var presentationOrder = []string{
	"sldMasterIdLst",
	"notesMasterIdLst",
	"handoutMasterIdLst",
	"sldIdLst",
	"sldSz",
	"notesSz",
	"smartTags",
	"embeddedFontLst",
	"custShowLst",
	"photoAlbum",
	"custDataLst",
	"kinsoku",
	"defaultTextStyle",
	"modifyVerifier",
	"extLst",
}
