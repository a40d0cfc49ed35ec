package render

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	mdhtml "github.com/yuin/goldmark/renderer/html"
)

// Documents authored before the block editor carry markdown bodies. Those
// render through goldmark plus a UGC policy; everything from the block
// editor goes through the sanitized block pipeline instead.

var (
	md       goldmark.Markdown
	mdPolicy *bluemonday.Policy
)

func init() {
	md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithRendererOptions(
			mdhtml.WithHardWraps(),
		),
	)

	mdPolicy = bluemonday.UGCPolicy()
	mdPolicy.RequireNoFollowOnLinks(true)
	mdPolicy.RequireNoReferrerOnLinks(true)
	mdPolicy.AddTargetBlankToFullyQualifiedLinks(true)
}

func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}

	sanitized := mdPolicy.SanitizeBytes(buf.Bytes())
	return string(sanitized), nil
}
