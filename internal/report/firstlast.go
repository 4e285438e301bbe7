package report

import (
	"fmt"
	"regexp"

	"github.com/bimmerbailey/logsmart/internal/extract"
	"github.com/bimmerbailey/logsmart/internal/parser"
)

// DefaultKeyTemplate identifies a thread of a process.
const DefaultKeyTemplate = "{processid}/{threadid}"

// Occurrence is the first and last line seen for one key.
type Occurrence struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	First string `json:"first"`
	Last  string `json:"last"`
}

// FirstLastOptions configures FirstLast.
type FirstLastOptions struct {
	// KeyTemplate builds the key of a line from its fields.
	KeyTemplate string
	// Pattern, when set, restricts the lines considered.
	Pattern *regexp.Regexp
}

// FirstLastResult is the output of FirstLast.
type FirstLastResult struct {
	Occurrences []Occurrence
	Source      *extract.Result
}

// FirstLast groups matched lines by key and records the first and last line
// of every key, in first-seen order.
func FirstLast(desc *parser.Descriptor, name string, lines []string, opts FirstLastOptions) (*FirstLastResult, error) {
	if opts.KeyTemplate == "" {
		opts.KeyTemplate = DefaultKeyTemplate
	}
	tmpl, err := parser.ParseTemplate(opts.KeyTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid key template: %w", err)
	}
	for _, ref := range tmpl.Fields() {
		if !desc.HasGroup(ref) {
			return nil, fmt.Errorf("key template %q: format %s has no field %q: %w",
				opts.KeyTemplate, desc.Name(), ref, parser.ErrTemplateFieldMissing)
		}
	}

	index := make(map[string]int)
	var occ []Occurrence
	considered := 0

	src := classify(desc, name, lines, func(rec *extract.Record) bool {
		if opts.Pattern != nil && !opts.Pattern.MatchString(rec.Raw) {
			return true
		}
		key, err := tmpl.Render(rec.Fields)
		if err != nil {
			return false
		}
		considered++
		i, ok := index[key]
		if !ok {
			index[key] = len(occ)
			occ = append(occ, Occurrence{Key: key, First: rec.Raw})
			i = len(occ) - 1
		}
		occ[i].Count++
		occ[i].Last = rec.Raw
		return true
	})

	if opts.Pattern != nil && considered == 0 {
		return &FirstLastResult{Source: src}, fmt.Errorf("%w: %q", ErrNoReferenceMatch, opts.Pattern.String())
	}
	return &FirstLastResult{Occurrences: occ, Source: src}, nil
}
