// Package parser holds the log format registry and the per-line parsing
// rules of every supported format.
//
// A format is described by an immutable Descriptor: a line pattern with named
// capture groups, an optional strptime-style date grammar (with an optional
// locale), an output template and a handful of example lines.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Well-known capture group names.
const (
	FieldContent = "content"
	FieldDate    = "date"

	// FieldCleanContent is the synthetic field holding the redacted content.
	FieldCleanContent = "cleanContent"
)

// Fields maps capture group names to the text they matched. Groups that did
// not take part in the match are present with an empty value.
type Fields map[string]string

// Descriptor describes how to parse and render one log format.
type Descriptor struct {
	name        string
	description string
	pattern     *regexp.Regexp
	groups      []string
	dateGrammar string
	dateLocale  string
	date        *dateCodec
	template    *Template
	examples    []string
}

// Definition is the declarative form of a Descriptor.
type Definition struct {
	Name        string
	Description string
	Pattern     string
	DateGrammar string
	DateLocale  string
	Template    string
	Examples    []string
}

// NewDescriptor compiles a Definition. Every name referenced by the template must be
// a capture group of the pattern or cleanContent.
func NewDescriptor(s Definition) (*Descriptor, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("descriptor has no name")
	}
	if !strings.HasPrefix(s.Pattern, "^") {
		s.Pattern = "^(?:" + s.Pattern + ")"
	}
	re, err := regexp.Compile(s.Pattern)
	if err != nil {
		return nil, fmt.Errorf("format %s: invalid pattern: %w", s.Name, err)
	}

	var groups []string
	for _, n := range re.SubexpNames() {
		if n != "" {
			groups = append(groups, n)
		}
	}

	tmpl, err := ParseTemplate(s.Template)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", s.Name, err)
	}
	for _, ref := range tmpl.Fields() {
		if ref == FieldCleanContent && re.SubexpIndex(FieldContent) >= 0 {
			continue
		}
		if re.SubexpIndex(ref) < 0 {
			return nil, fmt.Errorf("format %s: template references %q: %w", s.Name, ref, ErrTemplateFieldMissing)
		}
	}

	d := &Descriptor{
		name:        s.Name,
		description: s.Description,
		pattern:     re,
		groups:      groups,
		dateGrammar: s.DateGrammar,
		dateLocale:  s.DateLocale,
		template:    tmpl,
		examples:    append([]string(nil), s.Examples...),
	}

	if s.DateGrammar != "" {
		codec, err := newDateCodec(s.DateGrammar, s.DateLocale)
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", s.Name, err)
		}
		d.date = codec
	}

	return d, nil
}

// MustDescriptor is like NewDescriptor but panics on error.
func MustDescriptor(s Definition) *Descriptor {
	d, err := NewDescriptor(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Descriptor) Name() string            { return d.name }
func (d *Descriptor) Description() string     { return d.description }
func (d *Descriptor) Pattern() *regexp.Regexp { return d.pattern }
func (d *Descriptor) DateGrammar() string     { return d.dateGrammar }
func (d *Descriptor) DateLocale() string      { return d.dateLocale }
func (d *Descriptor) Template() *Template     { return d.template }

// Groups returns the capture group names in pattern order.
func (d *Descriptor) Groups() []string {
	return append([]string(nil), d.groups...)
}

// HasGroup reports whether the pattern declares the named group.
func (d *Descriptor) HasGroup(name string) bool {
	return d.pattern.SubexpIndex(name) >= 0
}

// Examples returns the illustrative lines bundled with the format.
func (d *Descriptor) Examples() []string {
	return append([]string(nil), d.examples...)
}

// Parse applies the pattern to a trimmed line. It returns false when the line
// does not match; that is an ordinary outcome, not an error.
func (d *Descriptor) Parse(line string) (Fields, bool) {
	m := d.pattern.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	fields := make(Fields, len(d.groups))
	for i, name := range d.pattern.SubexpNames() {
		if name == "" {
			continue
		}
		fields[name] = m[i]
	}
	return fields, true
}

// HasDate reports whether the format carries a machine-parseable timestamp.
func (d *Descriptor) HasDate() bool {
	return d.date != nil
}

// ParseDate interprets a date string with the format's grammar and locale.
func (d *Descriptor) ParseDate(s string) (time.Time, error) {
	if d.date == nil {
		return time.Time{}, fmt.Errorf("format %s: %w", d.name, ErrNoDateGrammar)
	}
	return d.date.parse(s)
}

// FormatDate renders t with the format's grammar and locale.
func (d *Descriptor) FormatDate(t time.Time) (string, error) {
	if d.date == nil {
		return "", fmt.Errorf("format %s: %w", d.name, ErrNoDateGrammar)
	}
	return d.date.format(t), nil
}
