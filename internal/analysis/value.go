package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Value is one entry in a step's history: either free text or a list of
// items. It serializes as a JSON string or a JSON array of strings.
type Value struct {
	text  string
	items []string
	list  bool
}

// TextValue wraps free text.
func TextValue(s string) Value {
	return Value{text: s}
}

// ListValue wraps a list of items. A nil list is stored as an empty list.
func ListValue(items ...string) Value {
	cloned := make([]string, len(items))
	copy(cloned, items)
	return Value{items: cloned, list: true}
}

// IsList reports whether the value holds a list.
func (v Value) IsList() bool {
	return v.list
}

// Items returns the list items. Text values yield their non-empty lines.
func (v Value) Items() []string {
	if v.list {
		return slices.Clone(v.items)
	}
	var items []string
	for line := range strings.SplitSeq(v.text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// String returns the text, or the items joined by newlines.
func (v Value) String() string {
	if v.list {
		return strings.Join(v.items, "\n")
	}
	return v.text
}

// Equal reports whether two values have the same shape and content.
func (v Value) Equal(o Value) bool {
	if v.list != o.list {
		return false
	}
	if v.list {
		return slices.Equal(v.items, o.items)
	}
	return v.text == o.text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.list {
		items := v.items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(v.text)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty value", ErrValueShape)
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case '[':
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("%w: %w", ErrValueShape, err)
		}
		*v = ListValue(items...)
	default:
		return fmt.Errorf("%w: expected string or array", ErrValueShape)
	}
	return nil
}
