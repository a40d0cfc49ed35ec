package blocks

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// The cleaner is a fixed, ordered sequence of string-level passes, not a
// parser. Each pass runs to a fixpoint so that removals cannot splice two
// fragments into a new match for the same pass (e.g. "jav" + "ascript:"),
// and the whole sequence repeats until the string stops changing, since a
// later pass can splice a match for an earlier one (e.g. a removed "eval("
// joining "javascr" and "ipt:").

var (
	// Script and style elements are removed including their content, so the
	// payload inside <script>...</script> never reaches the later passes.
	scriptElementRe = regexp.MustCompile(`(?is)<(?:script|style)\b[^>]*>.*?</(?:script|style)\s*>`)
	tagRe           = regexp.MustCompile(`<[^>]*>`)
	entityRe        = regexp.MustCompile(`(?i)&[a-z]+;|&#x?[0-9a-f]+;`)
	encodedTagRe    = regexp.MustCompile(`(?i)&lt;[^&]*&gt;`)
	eventHandlerRe  = regexp.MustCompile(`(?i)\bon\w+\s*=`)
)

var dangerousSchemes = []string{"javascript:", "data:", "vbscript:"}

// Known script primitives stripped as a last line of defense against
// payloads that survived the structural passes.
var scriptPrimitives = []string{"alert(", "eval(", "document.", "window."}

// CleanText runs the multi-pass cleaner over untrusted text and truncates
// the result to max runes. A max of 0 or less means no cap.
func CleanText(s string, max int) string {
	for {
		next := cleanOnce(s)
		if next == s {
			break
		}
		s = next
	}
	s = strings.TrimSpace(s)
	s = truncateRunes(s, max)
	// Truncation can expose trailing whitespace; trim again so cleaning
	// already-clean text is byte-stable.
	return strings.TrimSpace(s)
}

// cleanOnce applies the ordered pass sequence a single time.
func cleanOnce(s string) string {
	s = removeAll(s, scriptElementRe)
	s = removeAll(s, tagRe)
	s = removeAll(s, entityRe)
	s = removeAll(s, encodedTagRe)
	for _, scheme := range dangerousSchemes {
		s = stripFold(s, scheme)
	}
	s = removeAll(s, eventHandlerRe)
	for _, prim := range scriptPrimitives {
		s = stripFold(s, prim)
	}
	return s
}

// CleanKey reduces a supplied identifier to alphanumerics and hyphens,
// capped at MaxKeyLen. A non-string or empty result is replaced with a fresh
// random identifier so every block keeps a usable, collision-resistant key.
func CleanKey(v any) string {
	s, _ := v.(string)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
		if b.Len() >= MaxKeyLen {
			break
		}
	}
	if b.Len() == 0 {
		return uuid.NewString()
	}
	return b.String()
}

// removeAll applies re until the string stops changing.
func removeAll(s string, re *regexp.Regexp) string {
	for {
		next := re.ReplaceAllString(s, "")
		if next == s {
			return s
		}
		s = next
	}
}

// stripFold removes every case-insensitive occurrence of sub, repeating
// until none remain. sub is ASCII, so the byte-window EqualFold scan is
// offset-safe for multibyte input.
func stripFold(s, sub string) string {
	for {
		idx := indexFold(s, sub)
		if idx < 0 {
			return s
		}
		s = s[:idx] + s[idx+len(sub):]
	}
}

func indexFold(s, sub string) int {
	n := len(sub)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], sub) {
			return i
		}
	}
	return -1
}

func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
