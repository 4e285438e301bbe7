package cmd

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bimmerbailey/logsmart/internal/output"
	"github.com/bimmerbailey/logsmart/internal/report"
)

var deltaCmd = &cobra.Command{
	Use:   "delta [flags] <file>",
	Short: "Show the time elapsed between log lines",
	Long: `Prefix every dated line with the number of milliseconds since a reference.

Reference types:
  absolute  a date written in the format's own date grammar
  first     the first line matching --reference (default; empty matches all)
  last      the last line matching --reference
  prev      the closest earlier line matching --reference

Examples:
  logsmart delta --format logcat logcat.txt
  logsmart delta --format logcat --ref-type last --reference "Boot completed" logcat.txt
  logsmart delta --format ulogcat --ref-type absolute --reference "03-23 15:39:00.000" app.log
  logsmart delta --format dmesg_humantime --ref-type prev --reference "usb" --delta 250 dmesg.txt
  logsmart delta --format dmesg --output-format "%s ms | %s" dmesg.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runDelta,
}

func addDeltaFlags(cmd *cobra.Command) {
	cmd.Flags().String("ref-type", string(report.RefFirst), "reference type (absolute, first, last, prev)")
	cmd.Flags().StringP("reference", "r", "", "reference date or regex pattern")
	cmd.Flags().Int("delta", 0, "milliseconds added to every delta")
	cmd.Flags().String("output-format", report.DefaultDeltaFormat, "printf layout of a line; receives the delta then the line")
}

func init() {
	addDeltaFlags(deltaCmd)
	rootCmd.AddCommand(deltaCmd)
}

func runDelta(cmd *cobra.Command, args []string) error {
	refTypeStr, _ := cmd.Flags().GetString("ref-type")
	reference, _ := cmd.Flags().GetString("reference")
	offset, _ := cmd.Flags().GetInt("delta")
	layout, _ := cmd.Flags().GetString("output-format")

	refType, err := report.ParseRefType(refTypeStr)
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	lines, err := s.readLines(args[0])
	if err != nil {
		return err
	}

	res, err := report.Delta(s.desc, args[0], lines, report.DeltaOptions{
		RefType:   refType,
		Reference: reference,
		Offset:    time.Duration(offset) * time.Millisecond,
	})
	if res != nil {
		if derr := output.WriteDiagnostics(cmd.ErrOrStderr(), res.Source, s.color); derr != nil {
			return derr
		}
	}
	if err != nil {
		if errors.Is(err, report.ErrNoReferenceMatch) {
			log.Warn().Str("file", args[0]).Str("reference", reference).Msg("no reference line")
		}
		return err
	}

	return s.out.WriteDeltas(res.Lines, layout)
}
