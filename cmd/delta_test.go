package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bimmerbailey/logsmart/internal/parser"
	"github.com/bimmerbailey/logsmart/internal/report"
)

var logcatLines = []string{
	"03-24 08:36:15.304  4688  5002 D MainThread: Send DriverDistraction: 0",
	"03-24 08:36:15.306  4688  5002 I MainThread: Request type: PopUp",
	"03-24 08:36:15.308  4451  4451 I VehiclePropertyService: onChangeEvent id = 555745548",
	"garbage",
}

func TestDeltaFirst(t *testing.T) {
	resetConfig(t, map[string]interface{}{"format": "logcat"})

	file := writeTempFile(t, t.TempDir(), "logcat.txt", logcatLines)

	var out, errOut bytes.Buffer
	cmd := newTestCmd("delta", &out, &errOut, addDeltaFlags)
	_ = cmd.Flags().Set("reference", "Request")
	if err := runDelta(cmd, []string{file}); err != nil {
		t.Fatalf("runDelta() error = %v", err)
	}

	want := "[      -2 ms] " + logcatLines[0] + "\n" +
		"[       0 ms] " + logcatLines[1] + "\n" +
		"[       2 ms] " + logcatLines[2] + "\n"
	if out.String() != want {
		t.Errorf("runDelta() output =\n%s\nwant\n%s", out.String(), want)
	}
	if !strings.Contains(errOut.String(), "  'garbage'") {
		t.Errorf("expected unmatched line on stderr, got:\n%s", errOut.String())
	}
}

func TestDeltaOffset(t *testing.T) {
	resetConfig(t, map[string]interface{}{"format": "logcat"})

	file := writeTempFile(t, t.TempDir(), "logcat.txt", logcatLines[:2])

	var out, errOut bytes.Buffer
	cmd := newTestCmd("delta", &out, &errOut, addDeltaFlags)
	_ = cmd.Flags().Set("delta", "1000")
	if err := runDelta(cmd, []string{file}); err != nil {
		t.Fatalf("runDelta() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "[    1000 ms] ") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestDeltaOutputFormat(t *testing.T) {
	resetConfig(t, map[string]interface{}{"format": "logcat"})

	file := writeTempFile(t, t.TempDir(), "logcat.txt", logcatLines[:2])

	var out, errOut bytes.Buffer
	cmd := newTestCmd("delta", &out, &errOut, addDeltaFlags)
	_ = cmd.Flags().Set("output-format", "%s ms | %s")
	if err := runDelta(cmd, []string{file}); err != nil {
		t.Fatalf("runDelta() error = %v", err)
	}

	want := "0 ms | " + logcatLines[0] + "\n" +
		"2 ms | " + logcatLines[1] + "\n"
	if out.String() != want {
		t.Errorf("runDelta() output =\n%s\nwant\n%s", out.String(), want)
	}
}

func TestDeltaNoReferenceMatch(t *testing.T) {
	resetConfig(t, map[string]interface{}{"format": "logcat"})

	file := writeTempFile(t, t.TempDir(), "logcat.txt", logcatLines)

	var out, errOut bytes.Buffer
	cmd := newTestCmd("delta", &out, &errOut, addDeltaFlags)
	_ = cmd.Flags().Set("ref-type", "last")
	_ = cmd.Flags().Set("reference", "nowhere")
	err := runDelta(cmd, []string{file})
	if !errors.Is(err, report.ErrNoReferenceMatch) {
		t.Fatalf("expected ErrNoReferenceMatch, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got:\n%s", out.String())
	}
}

func TestDeltaFormatWithoutDates(t *testing.T) {
	resetConfig(t, map[string]interface{}{"format": "dmesg"})

	file := writeTempFile(t, t.TempDir(), "dmesg.txt", []string{"[   13.118810] p2p is supported"})

	var out, errOut bytes.Buffer
	cmd := newTestCmd("delta", &out, &errOut, addDeltaFlags)
	if err := runDelta(cmd, []string{file}); !errors.Is(err, parser.ErrNoDateGrammar) {
		t.Fatalf("expected ErrNoDateGrammar, got %v", err)
	}
}

func TestDeltaInvalidRefType(t *testing.T) {
	resetConfig(t, nil)

	var out, errOut bytes.Buffer
	cmd := newTestCmd("delta", &out, &errOut, addDeltaFlags)
	_ = cmd.Flags().Set("ref-type", "sideways")
	if err := runDelta(cmd, []string{"unused"}); err == nil {
		t.Fatal("expected error for invalid ref type")
	}
}
