// Package render maps sanitized blocks to an HTML display tree. Its entry
// points accept only blocks.Block values, so raw backend payloads cannot
// reach a renderer without passing through the sanitizer first.
package render

import (
	"bytes"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/exedev/contentd/internal/blocks"
)

// outputPolicy is a final, grammar-aware gate over the serialized tree. The
// block pipeline should never produce anything it rejects; it exists to
// catch renderer regressions, the same way the validator backstops the
// sanitizer.
var outputPolicy *bluemonday.Policy

func init() {
	outputPolicy = bluemonday.NewPolicy()
	outputPolicy.AllowElements(
		"p", "h1", "h2", "h3", "h4", "blockquote",
		"ul", "ol", "li",
		"strong", "em", "code", "u",
		"br", "img",
	)
	outputPolicy.AllowAttrs("src", "alt", "loading").OnElements("img")
	outputPolicy.AllowURLSchemes("https")
}

// Container elements per block style, list kind, and mark. These mirror the
// allowlists in the blocks package; an allowlisted value always has an
// entry here.
var (
	styleElements = map[blocks.Style]string{
		blocks.StyleNormal:     "p",
		blocks.StyleH1:         "h1",
		blocks.StyleH2:         "h2",
		blocks.StyleH3:         "h3",
		blocks.StyleH4:         "h4",
		blocks.StyleBlockquote: "blockquote",
	}
	listElements = map[blocks.ListItem]string{
		blocks.ListBullet: "ul",
		blocks.ListNumber: "ol",
	}
	markElements = map[blocks.Mark]string{
		blocks.MarkStrong:    "strong",
		blocks.MarkEm:        "em",
		blocks.MarkCode:      "code",
		blocks.MarkUnderline: "u",
	}
)

type Renderer struct {
	images *ImageURLBuilder
}

func New(images *ImageURLBuilder) *Renderer {
	return &Renderer{images: images}
}

// Render maps sanitized blocks to a display tree. The blocks are first
// re-checked by the independent validator; on failure Render returns an
// empty tree instead of rendering partially trusted content.
func (r *Renderer) Render(bs []blocks.Block) []*html.Node {
	if !blocks.Validate(bs) {
		slog.Warn("sanitized blocks failed validation, refusing to render")
		return nil
	}

	var nodes []*html.Node
	for _, b := range bs {
		if n := r.renderBlock(b); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// RenderHTML serializes the display tree and runs it through the output
// policy.
func (r *Renderer) RenderHTML(bs []blocks.Block) (string, error) {
	var buf bytes.Buffer
	for _, n := range r.Render(bs) {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return outputPolicy.Sanitize(buf.String()), nil
}

func (r *Renderer) renderBlock(b blocks.Block) *html.Node {
	switch b := b.(type) {
	case blocks.TextBlock:
		return renderTextBlock(b)
	case blocks.ImageBlock:
		return r.renderImageBlock(b)
	case blocks.BreakBlock:
		return element("br")
	default:
		return nil
	}
}

func renderTextBlock(b blocks.TextBlock) *html.Node {
	// List items get a list container wrapping a single item; the item's
	// spans render directly inside the <li>. Otherwise the style picks the
	// container.
	if b.ListItem != "" {
		list := element(listElements[b.ListItem])
		item := element("li")
		appendSpans(item, b.Children)
		list.AppendChild(item)
		return list
	}

	container := element(styleElements[b.Style])
	appendSpans(container, b.Children)
	return container
}

func (r *Renderer) renderImageBlock(b blocks.ImageBlock) *html.Node {
	src := r.images.URL(b.AssetRef)
	if src == "" {
		// Advisory only; a malformed reference or missing backend config
		// means the image is omitted, never a partial URL.
		slog.Debug("omitting image with unusable asset reference", "key", b.Key, "ref", b.AssetRef)
		return nil
	}

	img := element("img")
	img.Attr = []html.Attribute{
		{Key: "src", Val: src},
		{Key: "alt", Val: b.Caption},
		{Key: "loading", Val: "lazy"},
	}
	return img
}

func appendSpans(parent *html.Node, spans []blocks.Span) {
	for _, span := range spans {
		parent.AppendChild(renderSpan(span))
	}
}

// renderSpan folds the span's mark set over the text node: each present
// mark wraps the node built so far. With marks in canonical order the last
// mark ends up outermost. Every mark element is inert and attribute-free,
// so the fold order is a presentation choice, not a safety one.
func renderSpan(span blocks.Span) *html.Node {
	node := &html.Node{Type: html.TextNode, Data: span.Text}
	for _, m := range span.Marks {
		wrapper := element(markElements[m])
		wrapper.AppendChild(node)
		node = wrapper
	}
	return node
}

func element(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}
