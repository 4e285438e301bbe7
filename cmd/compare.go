package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/logsmart/internal/compare"
	"github.com/bimmerbailey/logsmart/internal/config"
	"github.com/bimmerbailey/logsmart/internal/group"
)

var compareCmd = &cobra.Command{
	Use:   "compare [flags] <file>...",
	Short: "Split log files by field and open them in a diff tool",
	Long: `Parse every file with the selected format, redact volatile values, split
the output lines by each grouping key and export the result into one
temporary directory per file. The directories are then opened together in
the diff tool, in the order the files were given.

Temporary directories are left in place after the tool exits.

Examples:
  logsmart compare run1.log run2.log
  logsmart compare --format logcat --key tag --difftool "kdiff3" a.txt b.txt
  logsmart compare --format dmesg --summary boot-*.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func addCompareFlags(cmd *cobra.Command) {
	cmd.Flags().String("difftool", "meld", "external diff tool, called with one directory per file")
	cmd.Flags().String("template", "", "override the format's output template")
	cmd.Flags().Bool("summary", false, "print the per-key summary of every file")
	cmd.Flags().String("tmpdir", "", "parent of the per-file export directories")
}

func init() {
	addCompareFlags(compareCmd)
	_ = viper.BindPFlag("difftool", compareCmd.Flags().Lookup("difftool"))
	_ = viper.BindPFlag("tmpdir", compareCmd.Flags().Lookup("tmpdir"))

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	template, _ := cmd.Flags().GetString("template")
	showSummary, _ := cmd.Flags().GetBool("summary")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}

	opts, err := s.driverOptions(cmd, template)
	if err != nil {
		return err
	}
	if showSummary {
		opts.OnPrepared = func(results []*compare.FileResult) error {
			return s.out.WriteSummaries(summaries(results))
		}
	}

	drv, err := compare.New(opts)
	if err != nil {
		return err
	}

	_, err = drv.Compare(commandContext(cmd), files)
	return err
}

func summaries(results []*compare.FileResult) []group.Summary {
	out := make([]group.Summary, len(results))
	for i, fr := range results {
		out[i] = fr.Partition.Summarize(0)
		out[i].Dir = fr.Dir
	}
	return out
}
