package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/logsmart/internal/output"
	"github.com/bimmerbailey/logsmart/internal/parser"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest [name]...",
	Short: "Check every format against its bundled example lines",
	Long: `Match the example lines bundled with each format against the format's
own pattern, interpret their dates and render their output template.
Dates that do not reformat to the same text are reported as warnings.

Examples:
  logsmart selftest
  logsmart selftest journalctl`,
	RunE: runSelftest,
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}

func runSelftest(cmd *cobra.Command, args []string) error {
	descs, err := lookupFormats(args)
	if err != nil {
		return err
	}

	var results []parser.ExampleResult
	for _, d := range descs {
		results = append(results, parser.SelfTest(d)...)
	}

	wr := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("output")))
	failed, err := wr.WriteSelfTest(results)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d examples failed", failed, len(results))
	}
	return nil
}
