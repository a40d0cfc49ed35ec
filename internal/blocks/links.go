package blocks

import (
	"net/url"
	"strings"
)

// Link is a normalized, policy-carrying external reference. The rel and
// target values are fixed here so no caller can forget them.
type Link struct {
	Href   string
	Rel    string
	Target string
}

const linkRel = "nofollow noopener noreferrer"

// SanitizeLink validates an externally supplied URL before it may be exposed
// as a clickable reference. Only absolute http/https URLs are accepted;
// anything else (javascript:, data:, ftp://, relative paths, garbage)
// returns nil.
//
// The default pipeline never produces URL-bearing blocks, so this is a
// restricted extension point rather than a hot path, but its behavior is
// contractual for any future caller.
func SanitizeLink(raw string) *Link {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil
	}
	if u.Host == "" {
		return nil
	}
	return &Link{
		Href:   u.String(),
		Rel:    linkRel,
		Target: "_blank",
	}
}
