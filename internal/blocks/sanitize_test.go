package blocks

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
)

func rawSpan(text string, marks ...string) map[string]any {
	span := map[string]any{"_type": "span", "_key": "s1", "text": text}
	if len(marks) > 0 {
		ms := make([]any, len(marks))
		for i, m := range marks {
			ms[i] = m
		}
		span["marks"] = ms
	}
	return span
}

func rawTextBlock(style string, spans ...any) map[string]any {
	return map[string]any{
		"_type":    "block",
		"_key":     "b1",
		"style":    style,
		"children": spans,
	}
}

// ---------------------------------------------------------------------------
// XSS regression tests
// ---------------------------------------------------------------------------

func TestSanitize_XSS(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		rejected string // substring that must NOT appear in any span text
	}{
		{"script tag", `<script>alert('xss')</script>`, "<script"},
		{"script tag content", `<script>alert(1)</script>`, "alert("},
		{"encoded script tag", `&lt;script&gt;alert(1)&lt;/script&gt;`, "&lt;"},
		{"img onerror", `<img src=x onerror=alert('xss')>`, "onerror="},
		{"event handler", `click onmouseover=steal() here`, "onmouseover="},
		{"javascript scheme", `javascript:alert(1)`, "javascript:"},
		{"data scheme", `data:text/html,<script>x</script>`, "data:"},
		{"vbscript scheme", `vbscript:MsgBox(1)`, "vbscript:"},
		{"split scheme", `javajavascript:script:void(0)`, "javascript:"},
		{"eval primitive", `eval(payload)`, "eval("},
		{"document primitive", `document.cookie`, "document."},
		{"window primitive", `window.location`, "window."},
		{"entity reference", `&quot;quoted&quot;`, "&quot;"},
		{"numeric entity", `&#106;avascript&#58;`, "&#106;"},
		{"case variant tag", `<ScRiPt>alert(1)</sCrIpT>`, "<scr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Sanitize([]any{rawTextBlock("normal", rawSpan(tt.input))})
			if len(out) != 1 {
				t.Fatalf("expected 1 block, got %d", len(out))
			}
			tb, ok := out[0].(TextBlock)
			if !ok {
				t.Fatalf("expected TextBlock, got %T", out[0])
			}
			for _, span := range tb.Children {
				if strings.Contains(strings.ToLower(span.Text), strings.ToLower(tt.rejected)) {
					t.Errorf("span text contains rejected %q: %q", tt.rejected, span.Text)
				}
			}
		})
	}
}

func TestSanitize_ScriptPayloadScenario(t *testing.T) {
	out := Sanitize([]any{rawTextBlock("normal", rawSpan("<script>alert(1)</script>Hello"))})
	tb := out[0].(TextBlock)
	if got := tb.Children[0].Text; got != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", got)
	}
}

// ---------------------------------------------------------------------------
// Structural filtering
// ---------------------------------------------------------------------------

func TestSanitize_UnknownBlockType(t *testing.T) {
	out := Sanitize([]any{map[string]any{"_type": "evil", "payload": "boom"}})
	if out == nil {
		t.Fatal("expected non-nil slice")
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d blocks", len(out))
	}
}

func TestSanitize_NonSequenceInput(t *testing.T) {
	for _, input := range []any{nil, "text", 42, map[string]any{"_type": "block"}} {
		out := Sanitize(input)
		if out == nil || len(out) != 0 {
			t.Errorf("Sanitize(%v): expected empty slice, got %v", input, out)
		}
	}
}

func TestSanitize_MalformedElements(t *testing.T) {
	out := Sanitize([]any{
		"just a string",
		42,
		nil,
		[]any{"nested"},
		rawTextBlock("normal", rawSpan("kept")),
	})
	if len(out) != 1 {
		t.Fatalf("expected only the well-formed block to survive, got %d", len(out))
	}
}

func TestSanitize_StyleFallback(t *testing.T) {
	tests := []struct {
		style string
		want  Style
	}{
		{"normal", StyleNormal},
		{"h1", StyleH1},
		{"h4", StyleH4},
		{"blockquote", StyleBlockquote},
		{"h6", StyleNormal},
		{"fancy", StyleNormal},
		{"", StyleNormal},
	}
	for _, tt := range tests {
		out := Sanitize([]any{rawTextBlock(tt.style, rawSpan("x"))})
		if got := out[0].(TextBlock).Style; got != tt.want {
			t.Errorf("style %q: got %q, want %q", tt.style, got, tt.want)
		}
	}
}

func TestSanitize_ListItemAndLevel(t *testing.T) {
	block := rawTextBlock("normal", rawSpan("item"))
	block["listItem"] = "bullet"
	block["level"] = float64(2)
	out := Sanitize([]any{block})
	tb := out[0].(TextBlock)
	if tb.ListItem != ListBullet {
		t.Errorf("listItem: got %q", tb.ListItem)
	}
	if tb.Level != 2 {
		t.Errorf("level: got %d", tb.Level)
	}

	block["listItem"] = "circle"
	block["level"] = float64(9)
	tb = Sanitize([]any{block})[0].(TextBlock)
	if tb.ListItem != "" {
		t.Errorf("unrecognized listItem should default to none, got %q", tb.ListItem)
	}
	if tb.Level != 0 {
		t.Errorf("out-of-range level should be omitted, got %d", tb.Level)
	}

	block["level"] = 2.5
	if tb := Sanitize([]any{block})[0].(TextBlock); tb.Level != 0 {
		t.Errorf("fractional level should be omitted, got %d", tb.Level)
	}
}

func TestSanitize_MarkAllowlist(t *testing.T) {
	out := Sanitize([]any{rawTextBlock("normal", rawSpan("x", "em", "strong", "em", "blink", "link-a1"))})
	span := out[0].(TextBlock).Children[0]
	want := []Mark{MarkStrong, MarkEm}
	if len(span.Marks) != len(want) {
		t.Fatalf("marks: got %v, want %v", span.Marks, want)
	}
	for i, m := range want {
		if span.Marks[i] != m {
			t.Errorf("marks[%d]: got %q, want %q", i, span.Marks[i], m)
		}
	}
}

func TestSanitize_DropsNonSpanChildren(t *testing.T) {
	out := Sanitize([]any{rawTextBlock("normal",
		rawSpan("ok"),
		map[string]any{"_type": "span", "_key": "s2", "text": 42},
		map[string]any{"_type": "inlineObject", "text": "nope"},
		"loose string",
	)})
	tb := out[0].(TextBlock)
	if len(tb.Children) != 1 || tb.Children[0].Text != "ok" {
		t.Errorf("expected only the valid span to survive, got %+v", tb.Children)
	}
}

func TestSanitize_MarkDefsEliminated(t *testing.T) {
	block := rawTextBlock("normal", rawSpan("linked", "strong"))
	block["markDefs"] = []any{
		map[string]any{"_type": "link", "_key": "a1", "href": "javascript:alert(1)"},
	}
	out := Sanitize([]any{block})

	encoded, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(encoded), "markDefs") {
		t.Errorf("sanitized output still mentions markDefs: %s", encoded)
	}
	if strings.Contains(string(encoded), "javascript") {
		t.Errorf("sanitized output still carries the href payload: %s", encoded)
	}
}

// ---------------------------------------------------------------------------
// Image and break blocks
// ---------------------------------------------------------------------------

func TestSanitize_ImageBlock(t *testing.T) {
	img := map[string]any{
		"_type":   "image",
		"_key":    "i1",
		"asset":   map[string]any{"_ref": "image-abc123-800x600-jpg"},
		"caption": "<b>Shot</b> of the product",
	}
	out := Sanitize([]any{img})
	if len(out) != 1 {
		t.Fatalf("expected 1 block, got %d", len(out))
	}
	ib := out[0].(ImageBlock)
	if ib.AssetRef != "image-abc123-800x600-jpg" {
		t.Errorf("asset ref: got %q", ib.AssetRef)
	}
	if strings.Contains(ib.Caption, "<") {
		t.Errorf("caption not cleaned: %q", ib.Caption)
	}
}

func TestSanitize_ImageBlockMalformedAsset(t *testing.T) {
	tests := []struct {
		name  string
		asset any
	}{
		{"missing asset", nil},
		{"asset is string", "image-abc-1x1-jpg"},
		{"ref not a string", map[string]any{"_ref": 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := map[string]any{"_type": "image", "_key": "i1"}
			if tt.asset != nil {
				img["asset"] = tt.asset
			}
			if out := Sanitize([]any{img}); len(out) != 0 {
				t.Errorf("expected image to be dropped, got %v", out)
			}
		})
	}
}

func TestSanitize_BreakBlock(t *testing.T) {
	out := Sanitize([]any{map[string]any{"_type": "break", "_key": "br1"}})
	if len(out) != 1 {
		t.Fatalf("expected 1 block, got %d", len(out))
	}
	if _, ok := out[0].(BreakBlock); !ok {
		t.Errorf("expected BreakBlock, got %T", out[0])
	}
}

// ---------------------------------------------------------------------------
// Length bounds
// ---------------------------------------------------------------------------

func TestSanitize_LengthCaps(t *testing.T) {
	long := strings.Repeat("x", MaxTextLen+2000)
	out := Sanitize([]any{rawTextBlock("normal", rawSpan(long))})
	if got := utf8.RuneCountInString(out[0].(TextBlock).Children[0].Text); got != MaxTextLen {
		t.Errorf("span text length: got %d, want %d", got, MaxTextLen)
	}

	img := map[string]any{
		"_type":   "image",
		"_key":    "i1",
		"asset":   map[string]any{"_ref": "image-abc-1x1-jpg"},
		"caption": strings.Repeat("c", MaxCaptionLen+100),
	}
	out = Sanitize([]any{img})
	if got := utf8.RuneCountInString(out[0].(ImageBlock).Caption); got != MaxCaptionLen {
		t.Errorf("caption length: got %d, want %d", got, MaxCaptionLen)
	}
}

// ---------------------------------------------------------------------------
// Idempotence and validator agreement
// ---------------------------------------------------------------------------

func nastyDocument() []any {
	block := rawTextBlock("h7",
		rawSpan("<script>alert(1)</script>Hello", "strong", "blink"),
		rawSpan("javascript:void(0) plain"),
	)
	block["markDefs"] = []any{map[string]any{"_type": "link", "href": "javascript:x"}}
	block["level"] = float64(42)
	return []any{
		block,
		map[string]any{"_type": "evil"},
		map[string]any{
			"_type":   "image",
			"asset":   map[string]any{"_ref": "image-deadbeef-640x480-png"},
			"caption": "a <img onerror=alert(1)> caption",
		},
		map[string]any{"_type": "break"},
		"garbage",
	}
}

func TestSanitize_Idempotence(t *testing.T) {
	first := Sanitize(nastyDocument())
	enc1, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded any
	if err := json.Unmarshal(enc1, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	second := Sanitize(decoded)
	enc2, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if !bytes.Equal(enc1, enc2) {
		t.Errorf("sanitization not idempotent:\nfirst:  %s\nsecond: %s", enc1, enc2)
	}
}

func TestSanitize_OutputAlwaysValidates(t *testing.T) {
	inputs := []any{
		nastyDocument(),
		[]any{},
		nil,
		"not even a slice",
		[]any{rawTextBlock("h1", rawSpan("Title"))},
	}
	for i, input := range inputs {
		if !Validate(Sanitize(input)) {
			t.Errorf("input %d: sanitizer output failed independent validation", i)
		}
	}
}

// ---------------------------------------------------------------------------
// Key cleaner
// ---------------------------------------------------------------------------

func TestCleanKey(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"clean key", "abc-123", "abc-123"},
		{"strips punctuation", "a!b@c#", "abc"},
		{"strips markup", `<img src=x>`, "imgsrcx"},
		{"truncates", strings.Repeat("k", 80), strings.Repeat("k", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanKey(tt.input); got != tt.want {
				t.Errorf("CleanKey(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	t.Run("synthesizes key", func(t *testing.T) {
		for _, input := range []any{nil, "", "!!!", 42} {
			got := CleanKey(input)
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("CleanKey(%v) = %q, expected a fresh UUID", input, got)
			}
		}
	})

	t.Run("synthesized keys differ", func(t *testing.T) {
		if CleanKey("") == CleanKey("") {
			t.Error("expected collision-resistant keys")
		}
	})
}
