package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func writeTempFile(t *testing.T, dir string, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := []byte(joinLines(lines))
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func joinLines(lines []string) string {
	buf := bytes.Buffer{}
	for i, line := range lines {
		buf.WriteString(line)
		if i < len(lines)-1 {
			buf.WriteString("\n")
		}
	}
	return buf.String()
}

// newTestCmd returns a command writing stdout to out and stderr to errOut.
func newTestCmd(use string, out, errOut *bytes.Buffer, addFlags func(*cobra.Command)) *cobra.Command {
	cmd := &cobra.Command{Use: use}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if addFlags != nil {
		addFlags(cmd)
	}
	return cmd
}

// resetConfig clears viper and applies per-test settings.
func resetConfig(t *testing.T, settings map[string]interface{}) {
	t.Helper()
	viper.Reset()
	viper.Set("tmpdir", t.TempDir())
	for k, v := range settings {
		viper.Set(k, v)
	}
	t.Cleanup(viper.Reset)
}

type fakeDiffTool struct {
	mu    sync.Mutex
	calls [][]string
	name  string
	onRun func()
}

func (f *fakeDiffTool) run(_ context.Context, name string, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = name
	f.calls = append(f.calls, append([]string(nil), args...))
	if f.onRun != nil {
		f.onRun()
	}
	return nil
}

// installDiffTool replaces the diff tool runner for the duration of a test.
func installDiffTool(t *testing.T) *fakeDiffTool {
	t.Helper()
	fake := &fakeDiffTool{}
	prev := diffRunner
	diffRunner = fake.run
	t.Cleanup(func() { diffRunner = prev })
	return fake
}

var ulogcatLines = []string{
	"03-23 15:39:00.412 I SENSORSSVC  (aap-4752/AndroidAutoMsg-5000)   : Activate driver distraction restrictions with mask 0x0",
	"03-23 15:39:00.412 I             (aap-4752/readerThread-6272)     : Phone reported protocol version 1.7",
	"",
	"03-23 15:39:00.404 I DISPMAN     (display-focus-m-1577)           : onRequireInputCategory request from 'aap'",
	"03-23 15:39:01.000 W SENSORSSVC  (aap-4752/AndroidAutoMsg-5000)   : Deactivate with mask 0xFF",
	"this line is not ulogcat",
}
