package extract

import (
	"fmt"
	"io"
)

// NoMatchSummary returns the diagnostic header for unmatched lines, or ""
// when every line matched.
func (r *Result) NoMatchSummary() string {
	n := r.Count(Unmatched)
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d lines from %s did not match (out of %d):", n, r.Name, r.Total())
}

// WriteNoMatchReport writes the end-of-input diagnostic: the summary, every
// unmatched line quoted, then the summary again. Nothing is written when all
// lines matched.
func (r *Result) WriteNoMatchReport(w io.Writer) error {
	summary := r.NoMatchSummary()
	if summary == "" {
		return nil
	}
	if _, err := fmt.Fprintln(w, summary); err != nil {
		return err
	}
	for _, line := range r.Unmatched() {
		if _, err := fmt.Fprintf(w, "  '%s'\n", line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}

// WriteDroppedReport lists lines dropped because of template errors.
func (r *Result) WriteDroppedReport(w io.Writer) error {
	dropped := r.Dropped()
	if len(dropped) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%d lines from %s could not be rendered:\n", len(dropped), r.Name); err != nil {
		return err
	}
	for _, rec := range dropped {
		if _, err := fmt.Fprintf(w, "  '%s': %v\n", rec.Raw, rec.Err); err != nil {
			return err
		}
	}
	return nil
}
