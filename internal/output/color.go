package output

import (
	"fmt"
	"io"
	"os"

	"github.com/bimmerbailey/logsmart/internal/extract"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// ParseColorMode converts "auto", "always" or "never" to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode: %s", s)
	}
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w interface{}) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// ColorizeLine applies the color of a record kind to a line.
func ColorizeLine(kind extract.Kind, line string) string {
	switch kind {
	case extract.Unmatched:
		return colorYellow + line + colorReset
	case extract.Dropped:
		return colorRed + line + colorReset
	case extract.Skipped:
		return colorGray + line + colorReset
	default:
		return line
	}
}

// WriteDiagnostics writes the end-of-file report of res to w: the unmatched
// lines framed by their summary, then the dropped lines. Nothing is written
// when every line was rendered.
func WriteDiagnostics(w io.Writer, res *extract.Result, mode ColorMode) error {
	if !shouldColorize(mode, w) {
		if err := res.WriteNoMatchReport(w); err != nil {
			return err
		}
		return res.WriteDroppedReport(w)
	}

	if summary := res.NoMatchSummary(); summary != "" {
		fmt.Fprintln(w, colorBold+summary+colorReset)
		for _, line := range res.Unmatched() {
			fmt.Fprintf(w, "  %s\n", ColorizeLine(extract.Unmatched, "'"+line+"'"))
		}
		if _, err := fmt.Fprintln(w, colorBold+summary+colorReset); err != nil {
			return err
		}
	}

	dropped := res.Dropped()
	if len(dropped) == 0 {
		return nil
	}
	fmt.Fprintf(w, "%s%d lines from %s could not be rendered:%s\n", colorBold, len(dropped), res.Name, colorReset)
	for _, rec := range dropped {
		line := fmt.Sprintf("'%s': %v", rec.Raw, rec.Err)
		if _, err := fmt.Fprintf(w, "  %s\n", ColorizeLine(extract.Dropped, line)); err != nil {
			return err
		}
	}
	return nil
}
