// Package compare drives side-by-side comparison of log files: every input is
// parsed, grouped and exported into its own directory, then all directories
// are handed to an external diff tool.
package compare

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/bimmerbailey/logsmart/internal/extract"
	"github.com/bimmerbailey/logsmart/internal/group"
	"github.com/bimmerbailey/logsmart/internal/output"
	"github.com/bimmerbailey/logsmart/internal/parser"
	"github.com/bimmerbailey/logsmart/internal/preprocess"
)

// ErrExternalTool reports that the diff tool could not be launched or
// terminated abnormally.
var ErrExternalTool = errors.New("external diff tool failed")

// DefaultDiffTool is used when Options.DiffTool is empty.
const DefaultDiffTool = "meld"

// Runner starts the diff tool and waits for it.
type Runner func(ctx context.Context, name string, args ...string) error

// Options configures a Driver.
type Options struct {
	Descriptor *parser.Descriptor
	// Keys are the grouping keys; ALL is always added.
	Keys     []string
	DiffTool string
	Encoding parser.Encoding
	// Workers bounds concurrent file processing. Zero means one per file.
	Workers int
	// TempParent is where per-file export directories are created.
	// Empty means the system temporary directory.
	TempParent string
	Redactor   *preprocess.Redactor
	Template   *parser.Template
	// Diagnostics receives the per-file unmatched line reports.
	Diagnostics io.Writer
	Color       output.ColorMode
	Runner      Runner
	// OnPrepared is called by Compare once every file is exported and before
	// the diff tool starts. An error aborts the comparison.
	OnPrepared func([]*FileResult) error
}

// FileResult is the outcome of processing one input file.
type FileResult struct {
	Path      string
	Dir       string
	Result    *extract.Result
	Partition *group.Partition
}

// Driver runs comparisons. It holds no per-file state and may be reused.
type Driver struct {
	opts      Options
	keys      []string
	extractor *extract.Extractor
}

// New validates opts and creates a Driver.
func New(opts Options) (*Driver, error) {
	if opts.Descriptor == nil {
		return nil, fmt.Errorf("no log format selected")
	}
	if opts.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative")
	}
	if opts.DiffTool == "" {
		opts.DiffTool = DefaultDiffTool
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = io.Discard
	}
	if opts.Runner == nil {
		opts.Runner = execRunner
	}

	var xopts []extract.Option
	if opts.Redactor != nil {
		xopts = append(xopts, extract.WithRedactor(opts.Redactor))
	}
	if opts.Template != nil {
		xopts = append(xopts, extract.WithTemplate(opts.Template))
	}

	return &Driver{
		opts:      opts,
		keys:      group.NormalizeKeys(opts.Keys),
		extractor: extract.New(opts.Descriptor, xopts...),
	}, nil
}

// Analyse reads, extracts and groups one file without exporting it.
func (d *Driver) Analyse(path string) (*FileResult, error) {
	lines, err := parser.ReadFile(path, d.opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	res := d.extractor.ExtractAll(path, lines)
	return &FileResult{
		Path:      path,
		Result:    res,
		Partition: group.Build(res, d.keys),
	}, nil
}

// Process analyses one file and exports it into a fresh temporary directory.
func (d *Driver) Process(path string) (*FileResult, error) {
	fr, err := d.Analyse(path)
	if err != nil {
		return nil, err
	}
	dir, err := fr.Partition.ExportTemp(d.opts.TempParent)
	fr.Dir = dir
	if err != nil {
		return fr, fmt.Errorf("export %s: %w", path, err)
	}
	return fr, nil
}

// Prepare processes every file on isolated workers. Results and diagnostics
// follow the order of files.
func (d *Driver) Prepare(ctx context.Context, files []string) ([]*FileResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files")
	}

	results := make([]*FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if d.opts.Workers > 0 {
		g.SetLimit(d.opts.Workers)
	}

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr, err := d.Process(path)
			if err != nil {
				return err
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, fr := range results {
		d.Report(fr)
	}
	return results, nil
}

// Report logs the outcome of one file and writes its unmatched lines to the
// diagnostics writer. It is called for every file, including files where
// nothing matched.
func (d *Driver) Report(fr *FileResult) {
	res := fr.Result
	log.Info().
		Str("file", fr.Path).
		Str("dir", fr.Dir).
		Int("matched", res.Count(extract.Matched)).
		Int("unmatched", res.Count(extract.Unmatched)).
		Int("dropped", res.Count(extract.Dropped)).
		Msg("file analysed")

	if n := res.Count(extract.Unmatched); n > 0 {
		log.Warn().Str("file", fr.Path).Int("count", n).Int("total", res.Total()).Msg("lines did not match")
	}
	if dropped := res.Dropped(); len(dropped) > 0 {
		for _, rec := range dropped {
			log.Debug().Str("file", fr.Path).Str("line", rec.Raw).Err(rec.Err).Msg("line dropped")
		}
		log.Warn().Str("file", fr.Path).Int("count", len(dropped)).Msg("lines could not be rendered")
	}

	if err := output.WriteDiagnostics(d.opts.Diagnostics, res, d.opts.Color); err != nil {
		log.Error().Err(err).Str("file", fr.Path).Msg("write diagnostics")
	}
}

// Invoke runs the diff tool with dirs as arguments. A non-zero exit status is
// logged but not treated as a failure; diff tools use it to signal that the
// inputs differ.
func (d *Driver) Invoke(ctx context.Context, dirs []string) error {
	log.Info().Str("tool", d.opts.DiffTool).Strs("dirs", dirs).Msg("launching diff tool")

	err := d.opts.Runner(ctx, d.opts.DiffTool, dirs...)
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.Exited() {
		log.Warn().Str("tool", d.opts.DiffTool).Int("status", exitErr.ExitCode()).Msg("diff tool exited with non-zero status")
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrExternalTool, d.opts.DiffTool, err)
}

// Compare prepares every file and opens the resulting directories in the diff
// tool. The directories are not removed.
func (d *Driver) Compare(ctx context.Context, files []string) ([]*FileResult, error) {
	results, err := d.Prepare(ctx, files)
	if err != nil {
		return nil, err
	}
	if d.opts.OnPrepared != nil {
		if err := d.opts.OnPrepared(results); err != nil {
			return results, err
		}
	}
	if err := d.Invoke(ctx, Dirs(results)); err != nil {
		return results, err
	}
	return results, nil
}

// Dirs returns the export directories of results, in order.
func Dirs(results []*FileResult) []string {
	dirs := make([]string, len(results))
	for i, fr := range results {
		dirs[i] = fr.Dir
	}
	return dirs
}

func execRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Run()
}
