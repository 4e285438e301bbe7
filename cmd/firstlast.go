package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/bimmerbailey/logsmart/internal/output"
	"github.com/bimmerbailey/logsmart/internal/report"
)

var firstlastCmd = &cobra.Command{
	Use:   "firstlast [flags] <file>",
	Short: "Show the first and last line of every process or thread",
	Long: `Group matched lines by a key built from their fields and print, for every
key, the number of lines and the first and last of them.

Examples:
  logsmart firstlast --format logcat logcat.txt
  logsmart firstlast --format ulogcat --key-template "{processname}" app.log
  logsmart firstlast --format logcat --pattern "onChangeEvent" logcat.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runFirstlast,
}

func addFirstlastFlags(cmd *cobra.Command) {
	cmd.Flags().String("key-template", report.DefaultKeyTemplate, "template building the key of a line from its fields")
	cmd.Flags().StringP("pattern", "p", "", "only consider lines matching this regex pattern")
}

func init() {
	addFirstlastFlags(firstlastCmd)
	rootCmd.AddCommand(firstlastCmd)
}

func runFirstlast(cmd *cobra.Command, args []string) error {
	keyTemplate, _ := cmd.Flags().GetString("key-template")
	patternStr, _ := cmd.Flags().GetString("pattern")

	var pattern *regexp.Regexp
	if patternStr != "" {
		var err error
		pattern, err = regexp.Compile(patternStr)
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	lines, err := s.readLines(args[0])
	if err != nil {
		return err
	}

	res, err := report.FirstLast(s.desc, args[0], lines, report.FirstLastOptions{
		KeyTemplate: keyTemplate,
		Pattern:     pattern,
	})
	if res != nil {
		if derr := output.WriteDiagnostics(cmd.ErrOrStderr(), res.Source, s.color); derr != nil {
			return derr
		}
	}
	if err != nil {
		return err
	}

	return s.out.WriteOccurrences(res.Occurrences)
}
