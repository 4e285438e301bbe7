// Package report computes views over a single parsed log file: time deltas
// relative to a reference line, and the first and last line of every process
// or thread.
package report

import (
	"errors"

	"github.com/bimmerbailey/logsmart/internal/extract"
	"github.com/bimmerbailey/logsmart/internal/parser"
)

// ErrNoReferenceMatch is returned when no line matched the reference
// pattern. The operation produces no output in that case.
var ErrNoReferenceMatch = errors.New("no line matched the reference")

// classify runs the descriptor over lines. The returned result holds every
// non-blank line; accept may turn a matched record into an unmatched one.
func classify(desc *parser.Descriptor, name string, lines []string, accept func(*extract.Record) bool) *extract.Result {
	x := extract.New(desc)
	res := x.ExtractAll(name, lines)
	for i := range res.Records {
		rec := &res.Records[i]
		if rec.Kind == extract.Unmatched {
			continue
		}
		if !accept(rec) {
			rec.Kind = extract.Unmatched
		}
	}
	return res
}
