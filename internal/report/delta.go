package report

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/bimmerbailey/logsmart/internal/extract"
	"github.com/bimmerbailey/logsmart/internal/parser"
)

// RefType selects what the delta of each line is measured against.
type RefType string

const (
	// RefAbsolute measures against a date given in the format's own grammar.
	RefAbsolute RefType = "absolute"
	// RefFirst measures against the first line matching the reference.
	RefFirst RefType = "first"
	// RefLast measures against the last line matching the reference.
	RefLast RefType = "last"
	// RefPrev measures against the closest earlier line matching the reference.
	RefPrev RefType = "prev"
)

// RefTypes lists the accepted reference types.
var RefTypes = []RefType{RefAbsolute, RefFirst, RefLast, RefPrev}

// ParseRefType validates a reference type name.
func ParseRefType(s string) (RefType, error) {
	for _, r := range RefTypes {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid reference type %q (expected absolute, first, last or prev)", s)
}

// DeltaOptions configures Delta.
type DeltaOptions struct {
	RefType RefType
	// Reference is a date for RefAbsolute and a regular expression otherwise.
	// An empty expression matches every line.
	Reference string
	// Offset is added to every delta.
	Offset time.Duration
}

// DeltaLine is one dated line and its distance to the reference.
type DeltaLine struct {
	Line string        `json:"line"`
	Time time.Time     `json:"time"`
	Diff time.Duration `json:"diff_ns"`
	// HasDiff is false for prev lines that have no earlier reference.
	HasDiff bool `json:"has_diff"`
}

// Millis returns the delta in whole milliseconds, or "" without one.
func (l DeltaLine) Millis() string {
	if !l.HasDiff {
		return ""
	}
	return strconv.FormatInt(int64(l.Diff/time.Millisecond), 10)
}

// DefaultDeltaFormat renders a line as "[   delta ms] line". A layout receives
// the delta and the line, both as strings, in that order.
const DefaultDeltaFormat = "[%8s ms] %s"

// Format renders the line with DefaultDeltaFormat.
func (l DeltaLine) Format() string {
	return l.FormatWith(DefaultDeltaFormat)
}

// FormatWith renders the line with layout. An empty layout selects
// DefaultDeltaFormat.
func (l DeltaLine) FormatWith(layout string) string {
	if layout == "" {
		layout = DefaultDeltaFormat
	}
	return fmt.Sprintf(layout, l.Millis(), l.Line)
}

// DeltaResult is the output of Delta.
type DeltaResult struct {
	Lines []DeltaLine
	// Source holds every input line; undated lines are marked unmatched.
	Source *extract.Result
}

// Delta computes, for every line whose date parses, the time elapsed since
// the reference selected by opts. Lines that do not match the format, or
// whose date cannot be interpreted, are reported as unmatched.
func Delta(desc *parser.Descriptor, name string, lines []string, opts DeltaOptions) (*DeltaResult, error) {
	if !desc.HasDate() || !desc.HasGroup(parser.FieldDate) {
		return nil, fmt.Errorf("format %s: %w", desc.Name(), parser.ErrNoDateGrammar)
	}
	if opts.RefType == "" {
		opts.RefType = RefFirst
	}

	var (
		absolute time.Time
		ref      *regexp.Regexp
		err      error
	)
	switch opts.RefType {
	case RefAbsolute:
		absolute, err = desc.ParseDate(opts.Reference)
		if err != nil {
			return nil, fmt.Errorf("invalid absolute reference: %w", err)
		}
	case RefFirst, RefLast, RefPrev:
		ref, err = regexp.Compile(opts.Reference)
		if err != nil {
			return nil, fmt.Errorf("invalid reference pattern: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid reference type %q", opts.RefType)
	}

	var timed []DeltaLine
	src := classify(desc, name, lines, func(rec *extract.Record) bool {
		t, err := desc.ParseDate(rec.Fields[parser.FieldDate])
		if err != nil {
			return false
		}
		timed = append(timed, DeltaLine{Line: rec.Raw, Time: t})
		return true
	})

	if opts.RefType == RefFirst || opts.RefType == RefLast {
		found := false
		for _, l := range timed {
			if !ref.MatchString(l.Line) {
				continue
			}
			absolute = l.Time
			found = true
			if opts.RefType == RefFirst {
				break
			}
		}
		if !found {
			return &DeltaResult{Source: src}, fmt.Errorf("%w: %q in the %d lines", ErrNoReferenceMatch, opts.Reference, len(timed))
		}
	}

	var prev *time.Time
	for i := range timed {
		l := &timed[i]
		if opts.RefType == RefPrev {
			if prev != nil {
				l.Diff = l.Time.Sub(*prev) + opts.Offset
				l.HasDiff = true
			}
			if ref.MatchString(l.Line) {
				t := l.Time
				prev = &t
			}
			continue
		}
		l.Diff = l.Time.Sub(absolute) + opts.Offset
		l.HasDiff = true
	}

	return &DeltaResult{Lines: timed, Source: src}, nil
}
