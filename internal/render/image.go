package render

import (
	"fmt"
	"regexp"
	"strings"
)

// assetRefPattern is the strict shape of a usable image asset reference:
// image-<hex-id>-<width>x<height>-<format>. Anything else is unrenderable.
var assetRefPattern = regexp.MustCompile(`^image-([0-9a-f]+)-([0-9]+)x([0-9]+)-([a-z0-9]+)$`)

// DefaultCDNBaseURL is the image CDN host used when none is configured.
const DefaultCDNBaseURL = "https://cdn.sanity.io"

// ImageURLBuilder composes CDN image URLs from asset references and the
// configured backend project and dataset identifiers.
type ImageURLBuilder struct {
	baseURL string
	project string
	dataset string
}

func NewImageURLBuilder(baseURL, project, dataset string) *ImageURLBuilder {
	if baseURL == "" {
		baseURL = DefaultCDNBaseURL
	}
	return &ImageURLBuilder{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		project: project,
		dataset: dataset,
	}
}

// URL returns the composed image URL, or "" when the reference does not
// match the asset pattern, the project/dataset configuration is absent, or
// the configured base is not https (the output policy only admits https
// image sources, so any other base would yield a src-less img). There is no
// best-effort mode: a partial URL is never returned.
func (b *ImageURLBuilder) URL(ref string) string {
	if b == nil || b.project == "" || b.dataset == "" {
		return ""
	}
	if !strings.HasPrefix(b.baseURL, "https://") {
		return ""
	}
	m := assetRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return ""
	}
	id, width, height, format := m[1], m[2], m[3], m[4]
	return fmt.Sprintf("%s/images/%s/%s/%s-%sx%s.%s", b.baseURL, b.project, b.dataset, id, width, height, format)
}
