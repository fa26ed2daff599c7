// Package blocks holds the block model of an admin-authored page and the
// renderer that turns an ordered list of blocks into a markup fragment.
//
// Decoding is lenient on purpose: malformed block content degrades to empty
// values instead of failing, so a single bad block never breaks a page.
package blocks

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies a known block type.
type Kind string

const (
	KindHero  Kind = "hero"
	KindText  Kind = "text"
	KindStats Kind = "stats"
)

// Block is one typed, styleable content unit within a page.
type Block struct {
	ID    string          `json:"id,omitempty"`
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Style *Style          `json:"style,omitempty"`
}

// UnmarshalJSON never fails on a well-formed JSON object: fields with an
// unexpected shape are dropped rather than rejected.
func (b *Block) UnmarshalJSON(raw []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// Not an object at all; keep an empty block so ordering survives.
		*b = Block{}
		return nil
	}
	*b = Block{
		ID:   coerce(fields["id"]),
		Type: coerce(fields["type"]),
	}
	if d, ok := fields["data"]; ok && !isNull(d) {
		b.Data = append(json.RawMessage(nil), d...)
	}
	if s, ok := fields["style"]; ok {
		if st, ok := decodeStyle(s); ok {
			b.Style = st
		}
	}
	return nil
}

// Content is the decoded, typed form of a block. It is one of Hero,
// RichText, Stats or Unknown.
type Content interface {
	kind() Kind
}

// Hero is a banner with a heading and a sub-heading.
type Hero struct {
	Heading string
	Sub     string
	BgImage string
}

// RichText carries admin-authored markup. HTML wins over Content.
type RichText struct {
	HTML    string
	Content string
}

// Stats is a grid of number/label pairs.
type Stats struct {
	Items []StatItem
}

// StatItem is a single entry of a Stats block.
type StatItem struct {
	Number string
	Label  string
}

// Unknown is any block type the renderer has no dedicated strategy for.
type Unknown struct {
	Type string
	Data json.RawMessage
}

func (Hero) kind() Kind     { return KindHero }
func (RichText) kind() Kind { return KindText }
func (Stats) kind() Kind    { return KindStats }
func (u Unknown) kind() Kind { return Kind(u.Type) }

// Body returns the markup to embed: HTML if set, otherwise Content.
func (t RichText) Body() string {
	if t.HTML != "" {
		return t.HTML
	}
	return t.Content
}

// Content decodes the block's data into its typed variant.
func (b Block) Content() Content {
	fields := objectFields(b.Data)
	switch Kind(b.Type) {
	case KindHero:
		return Hero{
			Heading: coerce(fields["heading"]),
			Sub:     coerce(fields["sub"]),
			BgImage: coerce(fields["bgImage"]),
		}
	case KindText:
		return RichText{
			HTML:    coerce(fields["html"]),
			Content: coerce(fields["content"]),
		}
	case KindStats:
		var items []StatItem
		for _, raw := range arrayElems(fields["items"]) {
			f := objectFields(raw)
			items = append(items, StatItem{
				Number: coerce(f["number"]),
				Label:  coerce(f["label"]),
			})
		}
		return Stats{Items: items}
	default:
		return Unknown{Type: b.Type, Data: b.Data}
	}
}

// Field returns a single data field coerced to a string, or "".
func (b Block) Field(key string) string {
	return coerce(objectFields(b.Data)[key])
}

// SetField returns a copy of the block with data[key] set to value. The data
// object is re-encoded, so its keys come back sorted.
func (b Block) SetField(key, value string) Block {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b.Data, &fields); err != nil || fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	v, _ := encode(value, "")
	fields[key] = v
	out, err := encode(fields, "")
	if err != nil {
		return b
	}
	b.Data = out
	return b
}

// DeleteField returns a copy of the block without data[key].
func (b Block) DeleteField(key string) Block {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b.Data, &fields); err != nil || fields == nil {
		return b
	}
	if _, ok := fields[key]; !ok {
		return b
	}
	delete(fields, key)
	out, err := encode(fields, "")
	if err != nil {
		return b
	}
	b.Data = out
	return b
}

// Marshal encodes bs as compact JSON. Unlike json.Marshal it leaves <, > and &
// alone, so unknown block data is stored byte for byte.
func Marshal(bs []Block) ([]byte, error) {
	return encode(bs, "")
}

// MarshalIndent is Marshal with indentation, for editing forms.
func MarshalIndent(bs []Block, indent string) ([]byte, error) {
	return encode(bs, indent)
}

func encode(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func objectFields(raw json.RawMessage) map[string]json.RawMessage {
	var fields map[string]json.RawMessage
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return fields
}

func arrayElems(raw json.RawMessage) []json.RawMessage {
	var elems []json.RawMessage
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	return elems
}

// coerce turns a JSON scalar into its string form. Objects, arrays, null
// and invalid input all yield "".
func coerce(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
