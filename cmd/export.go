package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/logsmart/internal/compare"
	"github.com/bimmerbailey/logsmart/internal/config"
	"github.com/bimmerbailey/logsmart/internal/watch"
)

var exportCmd = &cobra.Command{
	Use:   "export [flags] <file>...",
	Short: "Split log files by field into a directory tree",
	Long: `Parse, redact and group log files like compare does, without starting a
diff tool. Each file is exported to <out>/<file name>/<key>/<key>_<value>.txt,
or to a new temporary directory when --out is not given.

With --watch the export of a file is rebuilt whenever that file changes.

Examples:
  logsmart export --out ./split app.log
  logsmart export --key tag --key level --output json app.log
  logsmart export --watch --out ./split device.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().String("out", "", "destination root (default: a new temporary directory per file)")
	cmd.Flags().String("template", "", "override the format's output template")
	cmd.Flags().BoolP("watch", "w", false, "re-export a file whenever it changes")
	cmd.Flags().String("debounce", "", "quiet period before re-exporting (default 500ms)")
}

func init() {
	addExportFlags(exportCmd)
	_ = viper.BindPFlag("watch.debounce", exportCmd.Flags().Lookup("debounce"))

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	outRoot, _ := cmd.Flags().GetString("out")
	template, _ := cmd.Flags().GetString("template")
	follow, _ := cmd.Flags().GetBool("watch")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}

	drv, err := s.newDriver(cmd, template)
	if err != nil {
		return err
	}

	var results []*compare.FileResult
	if outRoot == "" {
		results, err = drv.Prepare(commandContext(cmd), files)
		if err != nil {
			return err
		}
	} else {
		results, err = exportTo(drv, outRoot, files)
		if err != nil {
			return err
		}
	}

	if err := s.out.WriteSummaries(summaries(results)); err != nil {
		return err
	}

	if !follow {
		return nil
	}

	debounce, err := s.cfg.Watch.DebounceDuration()
	if err != nil {
		return err
	}
	return watchExports(commandContext(cmd), drv, results, debounce)
}

// exportTo exports every file into its own directory below root. Directory
// names come from the file names; a name already given to an earlier file
// gets the first free numeric suffix.
func exportTo(drv *compare.Driver, root string, files []string) ([]*compare.FileResult, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	taken := make(map[string]bool)
	results := make([]*compare.FileResult, 0, len(files))
	for _, path := range files {
		fr, err := drv.Analyse(path)
		if err != nil {
			return nil, err
		}

		name := uniqueName(filepath.Base(path), taken)
		taken[name] = true
		fr.Dir = filepath.Join(root, name)

		if err := os.Mkdir(fr.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create export directory: %w", err)
		}
		if err := fr.Partition.Export(fr.Dir); err != nil {
			return nil, fmt.Errorf("export %s: %w", path, err)
		}
		drv.Report(fr)
		results = append(results, fr)
	}
	return results, nil
}

func uniqueName(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		if name := base + "_" + strconv.Itoa(n); !taken[name] {
			return name
		}
	}
}

// reexport rebuilds the export directory of one file from scratch.
func reexport(drv *compare.Driver, path, dir string) error {
	fr, err := drv.Analyse(path)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return err
	}
	fr.Dir = dir
	if err := fr.Partition.Export(dir); err != nil {
		return err
	}
	drv.Report(fr)
	return nil
}

func watchExports(ctx context.Context, drv *compare.Driver, results []*compare.FileResult, debounce time.Duration) error {
	dirs := make(map[string]string, len(results))
	files := make([]string, len(results))
	for i, fr := range results {
		dirs[fr.Path] = fr.Dir
		files[i] = fr.Path
	}

	w, err := watch.New(watch.Options{
		Files:    files,
		Debounce: debounce,
		OnChange: func(path string) error {
			return reexport(drv, path, dirs[path])
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Int("files", len(files)).Dur("debounce", debounce).Msg("watching for changes")
	return w.Run(ctx)
}
