package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/logsmart/internal/output"
	"github.com/bimmerbailey/logsmart/internal/parser"
)

var formatsCmd = &cobra.Command{
	Use:   "formats [name]...",
	Short: "List the supported log formats",
	Long: `List the supported log formats with the fields they capture, their date
grammar and their output template. Any captured field can be used as a
grouping key.

Examples:
  logsmart formats
  logsmart formats --output json ulogcat logcat`,
	RunE: runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	descs, err := lookupFormats(args)
	if err != nil {
		return err
	}
	wr := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("output")))
	return wr.WriteFormats(descs)
}

// lookupFormats resolves names, or returns every format when names is empty.
func lookupFormats(names []string) ([]*parser.Descriptor, error) {
	if len(names) == 0 {
		return parser.All(), nil
	}
	descs := make([]*parser.Descriptor, 0, len(names))
	for _, name := range names {
		d, err := parser.Lookup(name)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return descs, nil
}
