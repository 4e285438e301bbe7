package compare

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimmerbailey/logsmart/internal/parser"
)

const (
	lineA = "03-23 15:39:00.412 I SENSORSSVC  (aap-4752/AndroidAutoMsg-5000)   : Activate driver distraction restrictions with mask 0x0"
	lineB = "03-23 15:39:00.404 I DISPMAN     (display-focus-m-1577)           : onRequireInputCategory request from 'aap'"
	lineC = "03-23 15:39:01.000 W SENSORSSVC  (aap-4752/AndroidAutoMsg-5000)   : Deactivate with mask 0x1"
)

func writeLog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

type recordingRunner struct {
	mu    sync.Mutex
	name  string
	args  []string
	calls int
	err   error
}

func (r *recordingRunner) run(_ context.Context, name string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.name = name
	r.args = append([]string(nil), args...)
	return r.err
}

func newDriver(t *testing.T, runner Runner, diag *bytes.Buffer) *Driver {
	t.Helper()
	desc, err := parser.Lookup("ulogcat")
	require.NoError(t, err)
	d, err := New(Options{
		Descriptor:  desc,
		Keys:        []string{"tag"},
		DiffTool:    "difftool",
		TempParent:  t.TempDir(),
		Diagnostics: diag,
		Runner:      runner,
	})
	require.NoError(t, err)
	return d
}

func TestNewRequiresDescriptor(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestCompareInvokesToolWithDirsInOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeLog(t, dir, "first.log", lineA, lineB)
	second := writeLog(t, dir, "second.log", lineC, "garbage line")

	runner := &recordingRunner{}
	var diag bytes.Buffer
	d := newDriver(t, runner.run, &diag)

	results, err := d.Compare(context.Background(), []string{first, second})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, "difftool", runner.name)
	assert.Equal(t, []string{results[0].Dir, results[1].Dir}, runner.args)
	assert.NotEqual(t, results[0].Dir, results[1].Dir)
	assert.Equal(t, first, results[0].Path)
	assert.Equal(t, second, results[1].Path)

	data, err := os.ReadFile(filepath.Join(results[0].Dir, "tag", "tag_SENSORSSVC.txt"))
	require.NoError(t, err)
	assert.Equal(t, "DATE I SENSORSSVC (aap-PID/AndroidAutoMsg-TID): Activate driver distraction restrictions with mask <hex>\n", string(data))

	data, err = os.ReadFile(filepath.Join(results[1].Dir, "ALL", "ALL_nomatch.txt"))
	require.NoError(t, err)
	assert.Equal(t, "garbage line\n", string(data))

	assert.Contains(t, diag.String(), "1 lines from "+second+" did not match (out of 2):")
	assert.Contains(t, diag.String(), "  'garbage line'")
	assert.NotContains(t, diag.String(), first)
}

func TestPrepareWithWorkerLimit(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.log", "b.log", "c.log", "d.log"} {
		files = append(files, writeLog(t, dir, name, lineA))
	}

	desc, err := parser.Lookup("ulogcat")
	require.NoError(t, err)
	d, err := New(Options{Descriptor: desc, Workers: 2, TempParent: t.TempDir()})
	require.NoError(t, err)

	results, err := d.Prepare(context.Background(), files)
	require.NoError(t, err)
	for i, fr := range results {
		assert.Equal(t, files[i], fr.Path)
		assert.DirExists(t, filepath.Join(fr.Dir, "ALL"))
	}
}

func TestPrepareMissingFile(t *testing.T) {
	d := newDriver(t, (&recordingRunner{}).run, &bytes.Buffer{})
	_, err := d.Prepare(context.Background(), []string{filepath.Join(t.TempDir(), "missing.log")})
	assert.Error(t, err)
}

func TestPrepareNoFiles(t *testing.T) {
	d := newDriver(t, (&recordingRunner{}).run, &bytes.Buffer{})
	_, err := d.Prepare(context.Background(), nil)
	assert.Error(t, err)
}

func TestPrepareReportsFileWithNoMatches(t *testing.T) {
	path := writeLog(t, t.TempDir(), "other.log", "nothing", "matches here")

	var diag bytes.Buffer
	d := newDriver(t, (&recordingRunner{}).run, &diag)
	results, err := d.Prepare(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Equal(t, 0, results[0].Partition.Summarize(0).Clean)
	assert.Contains(t, diag.String(), "2 lines from "+path+" did not match (out of 2):")
}

func TestInvokeLaunchFailure(t *testing.T) {
	runner := &recordingRunner{err: exec.ErrNotFound}
	d := newDriver(t, runner.run, &bytes.Buffer{})

	err := d.Invoke(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ErrExternalTool)
}

func TestInvokeNonZeroExitIsNotFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	runner := func(ctx context.Context, _ string, _ ...string) error {
		return exec.CommandContext(ctx, "sh", "-c", "exit 3").Run()
	}
	d := newDriver(t, runner, &bytes.Buffer{})

	assert.NoError(t, d.Invoke(context.Background(), []string{"a"}))
}

func TestInvokeKilledToolFails(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	runner := func(ctx context.Context, _ string, _ ...string) error {
		return exec.CommandContext(ctx, "sh", "-c", "kill -9 $$").Run()
	}
	d := newDriver(t, runner, &bytes.Buffer{})

	err := d.Invoke(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, ErrExternalTool)
}

func TestExecRunnerMissingTool(t *testing.T) {
	desc, err := parser.Lookup("xxx")
	require.NoError(t, err)
	d, err := New(Options{Descriptor: desc, DiffTool: "logsmart-no-such-diff-tool"})
	require.NoError(t, err)

	err = d.Invoke(context.Background(), []string{t.TempDir()})
	assert.True(t, errors.Is(err, ErrExternalTool), "got %v", err)
}

func TestDefaultDiffTool(t *testing.T) {
	runner := &recordingRunner{}
	desc, err := parser.Lookup("dmesg")
	require.NoError(t, err)
	d, err := New(Options{Descriptor: desc, Runner: runner.run})
	require.NoError(t, err)

	require.NoError(t, d.Invoke(context.Background(), []string{"x"}))
	assert.Equal(t, DefaultDiffTool, runner.name)
}

func TestCompareRunsOnPreparedBeforeTool(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "a.log", lineA, lineC)
	desc, err := parser.Lookup("ulogcat")
	require.NoError(t, err)

	runner := &recordingRunner{}
	var seen []*FileResult
	d, err := New(Options{
		Descriptor: desc,
		TempParent: t.TempDir(),
		Runner:     runner.run,
		OnPrepared: func(results []*FileResult) error {
			assert.Equal(t, 0, runner.calls)
			seen = results
			return nil
		},
	})
	require.NoError(t, err)

	results, err := d.Compare(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, results, seen)
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, 2, results[0].Result.Redactions())
}

func TestCompareOnPreparedErrorSkipsTool(t *testing.T) {
	path := writeLog(t, t.TempDir(), "a.log", lineA)
	desc, err := parser.Lookup("ulogcat")
	require.NoError(t, err)

	runner := &recordingRunner{}
	stop := errors.New("stop")
	d, err := New(Options{
		Descriptor: desc,
		TempParent: t.TempDir(),
		Runner:     runner.run,
		OnPrepared: func([]*FileResult) error { return stop },
	})
	require.NoError(t, err)

	_, err = d.Compare(context.Background(), []string{path})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 0, runner.calls)
}
