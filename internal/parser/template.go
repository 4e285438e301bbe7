package parser

import (
	"fmt"
	"strings"
)

// Template is an output line template with "{name}" placeholders. Literal
// braces are written "{{" and "}}".
type Template struct {
	src      string
	segments []segment
	fields   []string
}

type segment struct {
	literal string
	field   string
}

// ParseTemplate compiles a template string.
func ParseTemplate(src string) (*Template, error) {
	t := &Template{src: src}
	seen := make(map[string]bool)

	var lit strings.Builder
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '{' && i+1 < len(src) && src[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(src) && src[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(src[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("template %q: unclosed placeholder at offset %d", src, i)
			}
			name := src[i+1 : i+1+end]
			if name == "" {
				return nil, fmt.Errorf("template %q: empty placeholder at offset %d", src, i)
			}
			if lit.Len() > 0 {
				t.segments = append(t.segments, segment{literal: lit.String()})
				lit.Reset()
			}
			t.segments = append(t.segments, segment{field: name})
			if !seen[name] {
				seen[name] = true
				t.fields = append(t.fields, name)
			}
			i += end + 1
		case c == '}':
			return nil, fmt.Errorf("template %q: single '}' at offset %d", src, i)
		default:
			lit.WriteByte(c)
		}
	}
	if lit.Len() > 0 {
		t.segments = append(t.segments, segment{literal: lit.String()})
	}
	return t, nil
}

// MustTemplate is like ParseTemplate but panics on error.
func MustTemplate(src string) *Template {
	t, err := ParseTemplate(src)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the template source.
func (t *Template) String() string { return t.src }

// Fields returns the referenced names in first-use order.
func (t *Template) Fields() []string {
	return append([]string(nil), t.fields...)
}

// Render substitutes values into the template. A referenced name missing from
// values yields an error wrapping ErrTemplateFieldMissing.
func (t *Template) Render(values map[string]string) (string, error) {
	var b strings.Builder
	for _, s := range t.segments {
		if s.field == "" {
			b.WriteString(s.literal)
			continue
		}
		v, ok := values[s.field]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrTemplateFieldMissing, s.field)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}
