// Package template implements toolkit-style path templates.
//
// A pattern is a slash-separated path with {field} placeholders, e.g.
// "shots/{shot}/work/{name}.v{version}.hip". Templates can extract field
// values from an existing path and substitute field values to build one.
package template

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// fieldToken matches a single {field} placeholder inside a pattern.
var fieldToken = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Template is a parsed path template.
type Template struct {
	pattern string
	fields  []string
	re      *regexp.Regexp
}

// Parse compiles a pattern into a Template.
// Field names must be unique within a pattern.
func Parse(pattern string) (*Template, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, fmt.Errorf("template pattern is empty")
	}

	var (
		fields []string
		seen   = make(map[string]struct{})
		expr   strings.Builder
		last   int
	)

	// Match against path suffixes so absolute scene/output paths resolve
	// against project-relative patterns.
	expr.WriteString(`(?:^|/)`)

	for _, loc := range fieldToken.FindAllStringSubmatchIndex(pattern, -1) {
		expr.WriteString(regexp.QuoteMeta(pattern[last:loc[0]]))
		name := pattern[loc[2]:loc[3]]
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate field %q in template %q", name, pattern)
		}
		seen[name] = struct{}{}
		fields = append(fields, name)
		expr.WriteString(`(?P<` + name + `>[^/]+?)`)
		last = loc[1]
	}
	expr.WriteString(regexp.QuoteMeta(pattern[last:]))
	expr.WriteString(`$`)

	if leftover := fieldToken.ReplaceAllString(pattern, ""); strings.ContainsAny(leftover, "{}") {
		return nil, fmt.Errorf("malformed placeholder in template %q", pattern)
	}

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("compile template %q: %w", pattern, err)
	}

	return &Template{pattern: pattern, fields: fields, re: re}, nil
}

// Pattern returns the original pattern string.
func (t *Template) Pattern() string {
	return t.pattern
}

// FieldNames returns the placeholder names in pattern order.
func (t *Template) FieldNames() []string {
	out := make([]string, len(t.fields))
	copy(out, t.fields)
	return out
}

// HasField reports whether the template declares the given field.
func (t *Template) HasField(name string) bool {
	for _, f := range t.fields {
		if f == name {
			return true
		}
	}
	return false
}

// Fields extracts field values from a path.
// The path matches when its trailing components satisfy the pattern.
func (t *Template) Fields(path string) (map[string]string, error) {
	normalized := filepath.ToSlash(strings.TrimSpace(path))
	m := t.re.FindStringSubmatch(normalized)
	if m == nil {
		return nil, fmt.Errorf("path %q does not match template %q", path, t.pattern)
	}

	out := make(map[string]string, len(t.fields))
	for i, name := range t.re.SubexpNames() {
		if name == "" {
			continue
		}
		out[name] = m[i]
	}
	return out, nil
}

// Apply substitutes field values into the pattern.
// Every declared field must be present in fields.
func (t *Template) Apply(fields map[string]string) (string, error) {
	var missing []string
	result := fieldToken.ReplaceAllStringFunc(t.pattern, func(tok string) string {
		name := tok[1 : len(tok)-1]
		val, ok := fields[name]
		if !ok || val == "" {
			missing = append(missing, name)
			return tok
		}
		return val
	})
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("missing fields %v for template %q", missing, t.pattern)
	}
	return result, nil
}
