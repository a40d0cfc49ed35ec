package blocks

import "encoding/json"

// JSON encoding mirrors the backend wire shape (_type/_key discriminators) so
// a sanitized document can be persisted and later fed back through Sanitize
// unchanged. There are deliberately no UnmarshalJSON counterparts: decoded
// JSON is untrusted by definition and must re-enter through Sanitize.

type spanWire struct {
	Type  string `json:"_type"`
	Key   string `json:"_key"`
	Text  string `json:"text"`
	Marks []Mark `json:"marks,omitempty"`
}

type textBlockWire struct {
	Type     string   `json:"_type"`
	Key      string   `json:"_key"`
	Style    Style    `json:"style"`
	ListItem ListItem `json:"listItem,omitempty"`
	Level    int      `json:"level,omitempty"`
	Children []Span   `json:"children"`
}

type assetWire struct {
	Ref string `json:"_ref"`
}

type imageBlockWire struct {
	Type    string    `json:"_type"`
	Key     string    `json:"_key"`
	Asset   assetWire `json:"asset"`
	Caption string    `json:"caption,omitempty"`
}

type breakBlockWire struct {
	Type string `json:"_type"`
	Key  string `json:"_key"`
}

func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal(spanWire{Type: TypeSpan, Key: s.Key, Text: s.Text, Marks: s.Marks})
}

func (b TextBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(textBlockWire{
		Type:     TypeBlock,
		Key:      b.Key,
		Style:    b.Style,
		ListItem: b.ListItem,
		Level:    b.Level,
		Children: b.Children,
	})
}

func (b ImageBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(imageBlockWire{
		Type:    TypeImage,
		Key:     b.Key,
		Asset:   assetWire{Ref: b.AssetRef},
		Caption: b.Caption,
	})
}

func (b BreakBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(breakBlockWire{Type: TypeBreak, Key: b.Key})
}
