// Package prompt renders the {{name}} placeholders used by the AI prompts.
package prompt

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Template is prompt text with {{name}} placeholders. Single braces, as in
// the JSON examples embedded in prompts, are left alone.
type Template string

// Render substitutes every placeholder. All placeholders must be supplied.
func (t Template) Render(vars map[string]string) (string, error) {
	var missing []string
	for _, name := range t.Variables() {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}

	return placeholder.ReplaceAllStringFunc(string(t), func(m string) string {
		return vars[m[2:len(m)-2]]
	}), nil
}

// MustRender is Render for templates whose variables are fixed at compile time.
func (t Template) MustRender(vars map[string]string) string {
	out, err := t.Render(vars)
	if err != nil {
		panic(err)
	}
	return out
}

// Variables lists placeholder names in order of first appearance.
func (t Template) Variables() []string {
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(string(t), -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}
