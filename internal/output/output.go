// Package output renders formats, self-test results, partition summaries and
// report lines. It supports text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bimmerbailey/logsmart/internal/group"
	"github.com/bimmerbailey/logsmart/internal/parser"
	"github.com/bimmerbailey/logsmart/internal/report"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Format returns the configured output format.
func (wr *Writer) Format() Format { return wr.format }

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatInfo is the printable description of a log format.
type FormatInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Groups      []string `json:"groups"`
	DateGrammar string   `json:"date_grammar,omitempty"`
	DateLocale  string   `json:"date_locale,omitempty"`
	Template    string   `json:"template"`
	Examples    int      `json:"examples"`
}

// NewFormatInfo describes d.
func NewFormatInfo(d *parser.Descriptor) FormatInfo {
	return FormatInfo{
		Name:        d.Name(),
		Description: d.Description(),
		Groups:      d.Groups(),
		DateGrammar: d.DateGrammar(),
		DateLocale:  d.DateLocale(),
		Template:    d.Template().String(),
		Examples:    len(d.Examples()),
	}
}

// WriteFormats lists the given formats.
func (wr *Writer) WriteFormats(descs []*parser.Descriptor) error {
	infos := make([]FormatInfo, len(descs))
	for i, d := range descs {
		infos[i] = NewFormatInfo(d)
	}

	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(infos)
	case FormatTable:
		tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDATE\tGROUPS\tTEMPLATE")
		fmt.Fprintln(tw, "----\t----\t------\t--------")
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, info.DateGrammar, strings.Join(info.Groups, ","), info.Template)
		}
		return tw.Flush()
	default:
		for _, info := range infos {
			fmt.Fprintf(wr.w, "%s: %s\n", info.Name, info.Description)
			fmt.Fprintf(wr.w, "  fields:   %s\n", strings.Join(info.Groups, ", "))
			if info.DateGrammar != "" {
				if info.DateLocale != "" {
					fmt.Fprintf(wr.w, "  date:     %s (%s)\n", info.DateGrammar, info.DateLocale)
				} else {
					fmt.Fprintf(wr.w, "  date:     %s\n", info.DateGrammar)
				}
			}
			fmt.Fprintf(wr.w, "  template: %s\n", info.Template)
		}
		return nil
	}
}

// WriteSelfTest prints example check results and returns the number of
// failures.
func (wr *Writer) WriteSelfTest(results []parser.ExampleResult) (int, error) {
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}

	switch wr.format {
	case FormatJSON:
		return failed, wr.WriteJSON(results)
	case FormatTable:
		tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FORMAT\tSTATUS\tDATE\tLINE")
		fmt.Fprintln(tw, "------\t------\t----\t----")
		for _, r := range results {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Format, status(r), r.Date, truncate(r.Line, 60))
		}
		if err := tw.Flush(); err != nil {
			return failed, err
		}
	default:
		for _, r := range results {
			fmt.Fprintf(wr.w, "[%s] %s: %s\n", status(r), r.Format, r.Line)
			if r.Error != "" {
				fmt.Fprintf(wr.w, "    error: %s\n", r.Error)
			} else if !r.RoundTrip() {
				fmt.Fprintf(wr.w, "    date %q reformats as %q\n", r.Date, r.Reformatted)
			}
		}
	}
	_, err := fmt.Fprintf(wr.w, "%d examples, %d failed\n", len(results), failed)
	return failed, err
}

func status(r parser.ExampleResult) string {
	switch {
	case !r.OK():
		return "FAIL"
	case !r.RoundTrip():
		return "WARN"
	default:
		return "OK"
	}
}

// WriteSummaries prints the grouping summary of every exported file.
func (wr *Writer) WriteSummaries(summaries []group.Summary) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(summaries)
	case FormatTable:
		tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tKEY\tVALUE\tCOUNT\tPERCENT")
		fmt.Fprintln(tw, "----\t---\t-----\t-----\t-------")
		for _, s := range summaries {
			for _, k := range s.Keys {
				for _, v := range k.Values {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f%%\n", s.Name, k.Key, truncate(v.Value, 40), v.Count, v.Percent)
				}
			}
		}
		return tw.Flush()
	default:
		for _, s := range summaries {
			fmt.Fprintf(wr.w, "%s\n", s.Name)
			if s.Dir != "" {
				fmt.Fprintf(wr.w, "  exported to %s\n", s.Dir)
			}
			fmt.Fprintf(wr.w, "  original: %d  clean: %d  nomatch: %d  redacted: %d\n", s.Original, s.Clean, s.NoMatch, s.Redacted)
			for _, k := range s.Keys {
				fmt.Fprintf(wr.w, "  %s (%d values)\n", k.Key, len(k.Values))
				for _, v := range k.Values {
					fmt.Fprintf(wr.w, "    %-30s %6d  %6.2f%%\n", v.Value, v.Count, v.Percent)
				}
			}
			for _, c := range s.Collision {
				fmt.Fprintf(wr.w, "  shared file %s\n", c)
			}
		}
		return nil
	}
}

// WriteDeltas prints delta lines. layout is used by the text formats; empty
// selects report.DefaultDeltaFormat.
func (wr *Writer) WriteDeltas(lines []report.DeltaLine, layout string) error {
	if wr.format == FormatJSON {
		return wr.WriteJSON(lines)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(wr.w, l.FormatWith(layout)); err != nil {
			return err
		}
	}
	return nil
}

// WriteOccurrences prints the first and last line of every key.
func (wr *Writer) WriteOccurrences(occ []report.Occurrence) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(occ)
	case FormatTable:
		tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tCOUNT\tFIRST\tLAST")
		fmt.Fprintln(tw, "---\t-----\t-----\t----")
		for _, o := range occ {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", o.Key, o.Count, truncate(o.First, 50), truncate(o.Last, 50))
		}
		return tw.Flush()
	default:
		for _, o := range occ {
			fmt.Fprintf(wr.w, "\n%s %d\n%s\n", o.Key, o.Count, o.First)
			if o.Count > 1 {
				fmt.Fprintln(wr.w, o.Last)
			}
		}
		return nil
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
