package blocks

import "unicode/utf8"

// Validate independently re-checks the sanitizer's invariants as a
// defense-in-depth gate before rendering. It exists to catch sanitizer
// regressions: the renderer refuses to render anything that fails here.
//
// The Go type system already rules out two raw-input hazards by
// construction - span text is always a string, and no sanitized type can
// carry a mark-definition table - so those invariants hold for any value
// that satisfies Block at all. Everything else (allowlist membership, level
// range, length caps) is re-derived from the shared allowlists without going
// through the sanitizer's own code paths.
func Validate(bs []Block) bool {
	for _, b := range bs {
		switch b := b.(type) {
		case TextBlock:
			if !validateTextBlock(b) {
				return false
			}
		case ImageBlock:
			if utf8.RuneCountInString(b.Caption) > MaxCaptionLen {
				return false
			}
		case BreakBlock:
			// no payload
		default:
			// A Block implementation outside this package's closed set.
			return false
		}
	}
	return true
}

func validateTextBlock(b TextBlock) bool {
	if !AllowedStyles[b.Style] {
		return false
	}
	if b.ListItem != "" && !AllowedListItems[b.ListItem] {
		return false
	}
	if b.Level != 0 && (b.Level < 1 || b.Level > 6) {
		return false
	}
	for _, span := range b.Children {
		if utf8.RuneCountInString(span.Text) > MaxTextLen {
			return false
		}
		for _, m := range span.Marks {
			if !AllowedMarks[m] {
				return false
			}
		}
	}
	return true
}
