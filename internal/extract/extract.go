// Package extract turns raw log lines into normalized output lines using a
// format descriptor and the content redactor.
package extract

import (
	"strings"

	"github.com/bimmerbailey/logsmart/internal/parser"
	"github.com/bimmerbailey/logsmart/internal/preprocess"
)

// ErrTemplateFieldMissing marks a matched line whose template could not be
// rendered. Such lines are dropped from the output.
var ErrTemplateFieldMissing = parser.ErrTemplateFieldMissing

// Kind classifies the outcome of extracting one line.
type Kind int

const (
	// Skipped lines were blank after trimming.
	Skipped Kind = iota
	Matched
	Unmatched
	// Dropped lines matched but their template could not be rendered.
	Dropped
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Matched:
		return "matched"
	case Unmatched:
		return "unmatched"
	case Dropped:
		return "dropped"
	default:
		return "skipped"
	}
}

// Record is the result of extracting one line.
type Record struct {
	Kind Kind
	// Raw is the trimmed input line.
	Raw    string
	Fields parser.Fields
	// CleanContent is set only when Fields carries a content group.
	CleanContent    string
	HasCleanContent bool
	// Redactions is how many substrings the redactor replaced in content.
	Redactions int
	Output          string
	Err             error
}

// Value returns the value of a field, including the synthetic cleanContent.
func (r Record) Value(name string) (string, bool) {
	if name == parser.FieldCleanContent {
		return r.CleanContent, r.HasCleanContent
	}
	v, ok := r.Fields[name]
	return v, ok
}

// Extractor applies one descriptor to lines. It is stateless and may be
// shared between goroutines.
type Extractor struct {
	desc     *parser.Descriptor
	redactor *preprocess.Redactor
	template *parser.Template
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRedactor sets the redactor used to compute cleanContent.
// Default applies every built-in rule.
func WithRedactor(r *preprocess.Redactor) Option {
	return func(e *Extractor) {
		if r != nil {
			e.redactor = r
		}
	}
}

// WithTemplate replaces the descriptor's output template. The override is
// not checked against the pattern; lines it cannot render are dropped.
func WithTemplate(t *parser.Template) Option {
	return func(e *Extractor) {
		if t != nil {
			e.template = t
		}
	}
}

// New creates an Extractor for desc.
func New(desc *parser.Descriptor, opts ...Option) *Extractor {
	e := &Extractor{
		desc:     desc,
		redactor: preprocess.NewRedactor(nil),
		template: desc.Template(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes a single raw line.
func (e *Extractor) Extract(raw string) Record {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Record{Kind: Skipped}
	}

	fields, ok := e.desc.Parse(line)
	if !ok {
		return Record{Kind: Unmatched, Raw: line}
	}

	rec := Record{Kind: Matched, Raw: line, Fields: fields}

	values := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	if content, ok := fields[parser.FieldContent]; ok {
		rec.CleanContent, rec.Redactions = e.redactor.RedactAndCount(content)
		rec.HasCleanContent = true
		values[parser.FieldCleanContent] = rec.CleanContent
	}

	out, err := e.template.Render(values)
	if err != nil {
		rec.Kind = Dropped
		rec.Err = err
		return rec
	}
	rec.Output = out
	return rec
}

// Result collects the records of one input, in input order.
type Result struct {
	Name    string
	Records []Record
}

// ExtractAll processes every line of one input. Blank lines are omitted.
func (e *Extractor) ExtractAll(name string, lines []string) *Result {
	res := &Result{Name: name, Records: make([]Record, 0, len(lines))}
	for _, line := range lines {
		rec := e.Extract(line)
		if rec.Kind == Skipped {
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// Total returns the number of non-blank lines.
func (r *Result) Total() int { return len(r.Records) }

// Count returns the number of records of the given kind.
func (r *Result) Count(k Kind) int {
	n := 0
	for _, rec := range r.Records {
		if rec.Kind == k {
			n++
		}
	}
	return n
}

// Redactions returns the number of replacements made over all records.
func (r *Result) Redactions() int {
	n := 0
	for _, rec := range r.Records {
		n += rec.Redactions
	}
	return n
}

// Unmatched returns the raw lines that did not match, in input order.
func (r *Result) Unmatched() []string {
	var lines []string
	for _, rec := range r.Records {
		if rec.Kind == Unmatched {
			lines = append(lines, rec.Raw)
		}
	}
	return lines
}

// Dropped returns the records whose template could not be rendered.
func (r *Result) Dropped() []Record {
	var recs []Record
	for _, rec := range r.Records {
		if rec.Kind == Dropped {
			recs = append(recs, rec)
		}
	}
	return recs
}
