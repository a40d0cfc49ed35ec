package blocks

// Sanitize converts an untrusted block sequence (typically the result of
// decoding backend JSON into []any) into trusted blocks. It never returns an
// error: a non-slice input yields an empty result, and malformed elements
// degrade to omission or defaults so one bad block cannot take down the rest
// of the document. The output is a pure function of the input and the
// package allowlists.
func Sanitize(raw any) []Block {
	items, ok := raw.([]any)
	if !ok {
		return []Block{}
	}

	out := make([]Block, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := obj["_type"].(string)
		if !AllowedBlockTypes[typ] {
			continue
		}

		switch typ {
		case TypeBlock:
			out = append(out, sanitizeTextBlock(obj))
		case TypeImage:
			if img, ok := sanitizeImageBlock(obj); ok {
				out = append(out, img)
			}
		case TypeBreak:
			out = append(out, BreakBlock{Key: CleanKey(obj["_key"])})
		}
	}
	return out
}

// sanitizeTextBlock copies the allowlisted fields of a raw text block.
// Unrecognized styles and list kinds fall back to defaults rather than
// dropping the block; formatting loss is acceptable, content loss is not.
// The markDefs table is never copied: TextBlock has no field for it.
func sanitizeTextBlock(obj map[string]any) TextBlock {
	b := TextBlock{
		Key:   CleanKey(obj["_key"]),
		Style: StyleNormal,
	}

	if s, ok := obj["style"].(string); ok && AllowedStyles[Style(s)] {
		b.Style = Style(s)
	}
	if li, ok := obj["listItem"].(string); ok && AllowedListItems[ListItem(li)] {
		b.ListItem = ListItem(li)
	}
	if lvl, ok := obj["level"].(float64); ok && lvl >= 1 && lvl <= 6 && lvl == float64(int(lvl)) {
		b.Level = int(lvl)
	}

	children, _ := obj["children"].([]any)
	for _, child := range children {
		if span, ok := sanitizeSpan(child); ok {
			b.Children = append(b.Children, span)
		}
	}
	return b
}

// sanitizeSpan accepts only span-typed objects with string text. Marks
// outside the allowlist are dropped; the survivors are deduplicated and
// stored in canonical order.
func sanitizeSpan(raw any) (Span, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Span{}, false
	}
	if typ, _ := obj["_type"].(string); typ != TypeSpan {
		return Span{}, false
	}
	text, ok := obj["text"].(string)
	if !ok {
		return Span{}, false
	}

	span := Span{
		Key:  CleanKey(obj["_key"]),
		Text: CleanText(text, MaxTextLen),
	}

	if rawMarks, ok := obj["marks"].([]any); ok {
		present := make(map[Mark]bool, len(rawMarks))
		for _, m := range rawMarks {
			if s, ok := m.(string); ok && AllowedMarks[Mark(s)] {
				present[Mark(s)] = true
			}
		}
		for _, m := range MarkOrder {
			if present[m] {
				span.Marks = append(span.Marks, m)
			}
		}
	}
	return span, true
}

// sanitizeImageBlock requires an asset object exposing a string reference.
// The reference format itself is validated at render time against the strict
// asset pattern; here only the shape is checked.
func sanitizeImageBlock(obj map[string]any) (ImageBlock, bool) {
	asset, ok := obj["asset"].(map[string]any)
	if !ok {
		return ImageBlock{}, false
	}
	ref, ok := asset["_ref"].(string)
	if !ok {
		return ImageBlock{}, false
	}

	b := ImageBlock{
		Key:      CleanKey(obj["_key"]),
		AssetRef: ref,
	}
	if caption, ok := obj["caption"].(string); ok {
		b.Caption = CleanText(caption, MaxCaptionLen)
	}
	return b, true
}
