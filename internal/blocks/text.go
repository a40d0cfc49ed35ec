package blocks

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PlainText sanitizes raw backend content and concatenates all text-block
// span text with single-space separators, trimmed. Used for search indexing
// and metadata, never for display.
func PlainText(raw any) string {
	return PlainTextBlocks(Sanitize(raw))
}

// PlainTextBlocks extracts plain text from already-sanitized blocks.
func PlainTextBlocks(bs []Block) string {
	var sb strings.Builder
	for _, b := range bs {
		tb, ok := b.(TextBlock)
		if !ok {
			continue
		}
		for _, span := range tb.Children {
			if span.Text == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(span.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// CountCharacters returns the rune count of the extracted plain text.
func CountCharacters(raw any) int {
	return utf8.RuneCountInString(PlainText(raw))
}

// CountWords returns a language-aware word count of the extracted plain
// text: each CJK ideograph or kana character counts as one word, and each
// maximal run of other alphanumeric characters counts as one word.
func CountWords(raw any) int {
	return Words(PlainText(raw))
}

// Words implements the counting rule on an arbitrary string.
func Words(s string) int {
	count := 0
	inWord := false
	for _, r := range s {
		switch {
		case isCJK(r):
			count++
			inWord = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if !inWord {
				count++
				inWord = true
			}
		default:
			inWord = false
		}
	}
	return count
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r)
}
