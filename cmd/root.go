package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/logsmart/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "logsmart",
	Short: "Parse, redact and compare log files",
	Long: `Logsmart parses log files of a known format, replaces volatile values
(addresses, UUIDs, MAC addresses, hashes, phone numbers) with placeholders
and splits every file by process, thread, tag or level so that two runs can
be compared side by side in a diff tool.

Examples:
  logsmart compare --format ulogcat run1.log run2.log
  logsmart export --key tag --out ./split app.log
  logsmart delta --format logcat --reference "Boot completed" logcat.txt
  logsmart firstlast --format logcat logcat.txt
  logsmart formats`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(viper.GetString("log_level"), cmd.ErrOrStderr())
		if used := viper.ConfigFileUsed(); used != "" {
			log.Debug().Str("file", used).Msg("using config file")
		}
		return nil
	},
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.logsmart.yaml)")
	flags.StringP("format", "f", "ulogcat", "log format (see 'logsmart formats')")
	flags.StringArrayP("key", "k", nil, "group by this field (repeatable; default tag, threadname, threadid, level, processname, processid)")
	flags.String("encoding", "latin1", "input encoding (latin1, utf8)")
	flags.StringSlice("redact", nil, "redaction rules to apply (hex, mac, uuid, date, hash, phonenumber; default all)")
	flags.StringP("output", "o", "text", "output format (text, json, table)")
	flags.String("color", "auto", "color diagnostics (auto, always, never)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Int("workers", 0, "files processed at once (0 = one per file)")

	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("keys", flags.Lookup("key"))
	_ = viper.BindPFlag("encoding", flags.Lookup("encoding"))
	_ = viper.BindPFlag("redaction.patterns", flags.Lookup("redact"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("color", flags.Lookup("color"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("workers", flags.Lookup("workers"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".logsmart")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LOGSMART")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
			os.Exit(1)
		}
	}
}
