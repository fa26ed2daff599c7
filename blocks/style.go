package blocks

import (
	"encoding/json"
	"strings"
)

// TransitionModifier is appended to every non-empty composed class list.
const TransitionModifier = "transition-all"

// Value is a style value. Any JSON scalar is accepted; other shapes
// degrade to the empty string.
type Value string

// Style holds the presentation hints of a block. Every key is optional.
type Style struct {
	BgColor            Value `json:"bgColor,omitempty"`
	BgOpacity          Value `json:"bgOpacity,omitempty"`
	TextColor          Value `json:"textColor,omitempty"`
	FontSize           Value `json:"fontSize,omitempty"`
	FontWeight         Value `json:"fontWeight,omitempty"`
	Padding            Value `json:"padding,omitempty"`
	Border             Value `json:"border,omitempty"`
	BorderColor        Value `json:"borderColor,omitempty"`
	BorderRadius       Value `json:"borderRadius,omitempty"`
	Shadow             Value `json:"shadow,omitempty"`
	BackdropBlur       Value `json:"backdropBlur,omitempty"`
	HoverEffect        Value `json:"hoverEffect,omitempty"`
	TransitionDuration Value `json:"transitionDuration,omitempty"`
}

// decodeStyle reads the style object by exact key. Keys differing only in
// case are ignored. ok is false for null and non-objects.
func decodeStyle(raw json.RawMessage) (*Style, bool) {
	if isNull(raw) {
		return nil, false
	}
	var f map[string]json.RawMessage
	if err := json.Unmarshal(raw, &f); err != nil || f == nil {
		return nil, false
	}
	v := func(key string) Value { return Value(coerce(f[key])) }
	return &Style{
		BgColor:            v("bgColor"),
		BgOpacity:          v("bgOpacity"),
		TextColor:          v("textColor"),
		FontSize:           v("fontSize"),
		FontWeight:         v("fontWeight"),
		Padding:            v("padding"),
		Border:             v("border"),
		BorderColor:        v("borderColor"),
		BorderRadius:       v("borderRadius"),
		Shadow:             v("shadow"),
		BackdropBlur:       v("backdropBlur"),
		HoverEffect:        v("hoverEffect"),
		TransitionDuration: v("transitionDuration"),
	}, true
}

// values lists the style values in composition order.
func (s *Style) values() []Value {
	if s == nil {
		return nil
	}
	return []Value{
		s.BgColor,
		s.BgOpacity,
		s.TextColor,
		s.FontSize,
		s.FontWeight,
		s.Padding,
		s.Border,
		s.BorderColor,
		s.BorderRadius,
		s.Shadow,
		s.BackdropBlur,
		s.HoverEffect,
		s.TransitionDuration,
	}
}

// Classes composes the class list: every non-empty value in key order plus
// TransitionModifier. It returns "" when no value is set.
func (s *Style) Classes() string {
	var parts []string
	for _, v := range s.values() {
		if t := strings.TrimSpace(string(v)); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	parts = append(parts, TransitionModifier)
	return strings.Join(parts, " ")
}

// Text returns the trimmed textColor, or "".
func (s *Style) Text() string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(string(s.TextColor))
}

