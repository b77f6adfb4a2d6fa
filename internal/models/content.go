package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Value is a single structured-content field: free text or a list of strings.
type Value struct {
	Text   string
	Items  []string
	IsList bool
}

func Text(s string) Value { return Value{Text: s} }

func List(items ...string) Value {
	if items == nil {
		items = []string{}
	}
	return Value{Items: items, IsList: true}
}

// String renders the value as plain text; list items are joined by newlines.
func (v Value) String() string {
	if v.IsList {
		return strings.Join(v.Items, "\n")
	}
	return v.Text
}

func (v Value) IsZero() bool {
	if v.IsList {
		return len(v.Items) == 0
	}
	return strings.TrimSpace(v.Text) == ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsList {
		items := v.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts a string, a list, or any other JSON value. Non-string
// scalars and nested objects are kept as their compact JSON text.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Value{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{Text: s}
	case data[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, r := range raw {
			items = append(items, rawText(r))
		}
		*v = Value{Items: items, IsList: true}
	default:
		*v = Value{Text: rawText(data)}
	}
	return nil
}

func rawText(r json.RawMessage) string {
	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, r); err != nil {
		return string(r)
	}
	return buf.String()
}

// Content is an ordered mapping of field name to Value. It carries disclosure
// content, version snapshots and draft sections; keys keep insertion order
// through JSON round trips.
type Content struct {
	keys   []string
	values map[string]Value
}

func NewContent() Content {
	return Content{values: make(map[string]Value)}
}

func (c *Content) Set(key string, v Value) {
	if c.values == nil {
		c.values = make(map[string]Value)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = v
}

func (c Content) Get(key string) (Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c Content) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

func (c Content) Len() int { return len(c.keys) }

// Empty reports whether the content has no fields at all.
func (c Content) Empty() bool { return len(c.keys) == 0 }

func (c Content) Clone() Content {
	out := NewContent()
	for _, k := range c.keys {
		v := c.values[k]
		if v.IsList {
			v.Items = append([]string(nil), v.Items...)
		}
		out.Set(k, v)
	}
	return out
}

// Equal reports whether both hold the same fields in the same order.
func (c Content) Equal(o Content) bool {
	if len(c.keys) != len(o.keys) {
		return false
	}
	for i, k := range c.keys {
		if o.keys[i] != k {
			return false
		}
		a, b := c.values[k], o.values[k]
		if a.IsList != b.IsList || a.Text != b.Text || len(a.Items) != len(b.Items) {
			return false
		}
		for j := range a.Items {
			if a.Items[j] != b.Items[j] {
				return false
			}
		}
	}
	return true
}

func (c Content) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := c.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Content) UnmarshalJSON(data []byte) error {
	*c = NewContent()
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("content must be a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("content key must be a string")
		}
		var v Value
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("content field %q: %w", key, err)
		}
		c.Set(key, v)
	}
	_, err = dec.Token()
	return err
}
