// Package blocks defines the trusted rich-text block model and the
// sanitization pipeline that produces it from untrusted content-backend
// payloads.
//
// The model is deliberately closed: every value a sanitized block can carry
// is drawn from the allowlists in this file, and the mark-definition table
// (the structural element the content backend uses to attach links and other
// annotations to marks) has no representation at all. Removing the capability
// removes the whole class of href-based injection without having to sanitize
// URLs on the default path. Sanitizer, validator, and renderer all consult
// the same allowlists.
package blocks

// Block type tags as they appear in backend payloads.
const (
	TypeBlock = "block"
	TypeSpan  = "span"
	TypeImage = "image"
	TypeBreak = "break"
)

// Style is a paragraph-level style for a text block.
type Style string

const (
	StyleNormal     Style = "normal"
	StyleH1         Style = "h1"
	StyleH2         Style = "h2"
	StyleH3         Style = "h3"
	StyleH4         Style = "h4"
	StyleBlockquote Style = "blockquote"
)

// ListItem is the list kind of a text block, or empty for non-list blocks.
type ListItem string

const (
	ListBullet ListItem = "bullet"
	ListNumber ListItem = "number"
)

// Mark is an inline annotation on a span.
type Mark string

const (
	MarkStrong    Mark = "strong"
	MarkEm        Mark = "em"
	MarkCode      Mark = "code"
	MarkUnderline Mark = "underline"
)

var (
	AllowedBlockTypes = map[string]bool{
		TypeBlock: true,
		TypeImage: true,
		TypeBreak: true,
	}

	AllowedStyles = map[Style]bool{
		StyleNormal:     true,
		StyleH1:         true,
		StyleH2:         true,
		StyleH3:         true,
		StyleH4:         true,
		StyleBlockquote: true,
	}

	AllowedListItems = map[ListItem]bool{
		ListBullet: true,
		ListNumber: true,
	}

	AllowedMarks = map[Mark]bool{
		MarkStrong:    true,
		MarkEm:        true,
		MarkCode:      true,
		MarkUnderline: true,
	}
)

// MarkOrder is the canonical order marks are stored in and folded in at
// render time. Sanitized spans always list their marks in this order, which
// keeps repeated sanitization byte-stable.
var MarkOrder = []Mark{MarkStrong, MarkEm, MarkCode, MarkUnderline}

// Length caps applied during sanitization.
const (
	MaxTextLen    = 10000
	MaxCaptionLen = 200
	MaxKeyLen     = 50
)

// Block is one sanitized structural unit of rich content. Only the concrete
// types in this package satisfy it, so a renderer that takes []Block cannot
// be handed raw backend payloads.
type Block interface {
	BlockKey() string
	BlockType() string

	sanitized()
}

// Span is an inline run of cleaned text with zero or more marks. Marks are a
// set; duplicates are removed and the canonical MarkOrder is imposed.
type Span struct {
	Key   string
	Text  string
	Marks []Mark
}

// TextBlock is a paragraph, heading, blockquote, or list item.
type TextBlock struct {
	Key      string
	Style    Style
	ListItem ListItem // empty when the block is not a list item
	Level    int      // list nesting level, 0 when unset
	Children []Span
}

// ImageBlock references an externally hosted image by opaque asset reference.
// The reference is validated against the strict asset pattern at render time,
// not here.
type ImageBlock struct {
	Key      string
	AssetRef string
	Caption  string
}

// BreakBlock is a visual break with no payload.
type BreakBlock struct {
	Key string
}

func (b TextBlock) BlockKey() string  { return b.Key }
func (b TextBlock) BlockType() string { return TypeBlock }
func (TextBlock) sanitized()          {}

func (b ImageBlock) BlockKey() string  { return b.Key }
func (b ImageBlock) BlockType() string { return TypeImage }
func (ImageBlock) sanitized()          {}

func (b BreakBlock) BlockKey() string  { return b.Key }
func (b BreakBlock) BlockType() string { return TypeBreak }
func (BreakBlock) sanitized()          {}
