package models

import (
	"encoding/json"
	"testing"
)

func TestContentPreservesKeyOrder(t *testing.T) {
	in := `{"solution":"a widget","problem":"things break","claims":["Claim 1: x","Claim 2: y"]}`

	var c Content
	if err := json.Unmarshal([]byte(in), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	keys := c.Keys()
	want := []string{"solution", "problem", "claims"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	out, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != in {
		t.Fatalf("round trip = %s, want %s", out, in)
	}
}

func TestContentKeepsNonStringValuesAsText(t *testing.T) {
	var c Content
	if err := json.Unmarshal([]byte(`{"count": 3, "flag": true, "nested": {"a": 1}, "mixed": ["x", 2]}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	cases := map[string]string{
		"count":  "3",
		"flag":   "true",
		"nested": `{"a":1}`,
	}
	for key, want := range cases {
		v, ok := c.Get(key)
		if !ok {
			t.Fatalf("missing key %q", key)
		}
		if v.IsList || v.Text != want {
			t.Fatalf("%s = %+v, want text %q", key, v, want)
		}
	}

	mixed, _ := c.Get("mixed")
	if !mixed.IsList || len(mixed.Items) != 2 || mixed.Items[1] != "2" {
		t.Fatalf("mixed = %+v, want list [x 2]", mixed)
	}
}

func TestContentEmptyAndNull(t *testing.T) {
	var c Content
	if err := json.Unmarshal([]byte(`null`), &c); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !c.Empty() {
		t.Fatalf("null content should be empty")
	}
	out, _ := json.Marshal(c)
	if string(out) != "{}" {
		t.Fatalf("empty content marshals to %s, want {}", out)
	}

	if err := json.Unmarshal([]byte(`["not", "an", "object"]`), &c); err == nil {
		t.Fatalf("expected error for array content")
	}
}

func TestContentSetOverwritesInPlace(t *testing.T) {
	c := NewContent()
	c.Set("a", Text("1"))
	c.Set("b", Text("2"))
	c.Set("a", List("x", "y"))

	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	if c.Keys()[0] != "a" {
		t.Fatalf("overwrite moved key: %v", c.Keys())
	}
	v, _ := c.Get("a")
	if v.String() != "x\ny" {
		t.Fatalf("a = %q, want joined list", v.String())
	}

	clone := c.Clone()
	clone.Set("c", Text("3"))
	if c.Len() != 2 {
		t.Fatalf("clone mutated original")
	}
}

func TestFileTypeForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want FileType
	}{
		{".pdf", FileDrawing},
		{".PDF", FileDrawing},
		{".png", FileImage},
		{".jpeg", FileImage},
		{".docx", FileDocument},
		{".doc", FileDocument},
		{".xyz", FileImage},
	}
	for _, tt := range tests {
		if got := FileTypeForExtension(tt.ext); got != tt.want {
			t.Fatalf("FileTypeForExtension(%q) = %s, want %s", tt.ext, got, tt.want)
		}
	}
}
