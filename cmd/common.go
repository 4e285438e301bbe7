package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/logsmart/internal/compare"
	"github.com/bimmerbailey/logsmart/internal/config"
	"github.com/bimmerbailey/logsmart/internal/output"
	"github.com/bimmerbailey/logsmart/internal/parser"
	"github.com/bimmerbailey/logsmart/internal/preprocess"
)

// diffRunner overrides how the diff tool is started. Nil runs it with os/exec.
var diffRunner compare.Runner

// session is the resolved configuration of one command run.
type session struct {
	cfg      config.Config
	desc     *parser.Descriptor
	encoding parser.Encoding
	color    output.ColorMode
	out      *output.Writer
}

// newSession loads the configuration and resolves the log format. An unknown
// format fails here, before any input is opened.
func newSession(cmd *cobra.Command) (*session, error) {
	v := viper.GetViper()
	config.SetDefaults(v)
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	desc, err := parser.Lookup(cfg.Format)
	if err != nil {
		return nil, err
	}
	enc, err := parser.ParseEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	color, err := output.ParseColorMode(cfg.Color)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:      cfg,
		desc:     desc,
		encoding: enc,
		color:    color,
		out:      output.New(cmd.OutOrStdout(), output.ParseFormat(cfg.Output)),
	}, nil
}

// readLines reads one input file with the configured encoding.
func (s *session) readLines(path string) ([]string, error) {
	lines, err := parser.ReadFile(path, s.encoding)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// newDriver builds the comparison driver. template, when not empty, replaces
// the format's output template.
func (s *session) newDriver(cmd *cobra.Command, template string) (*compare.Driver, error) {
	opts, err := s.driverOptions(cmd, template)
	if err != nil {
		return nil, err
	}
	return compare.New(opts)
}

func (s *session) driverOptions(cmd *cobra.Command, template string) (compare.Options, error) {
	opts := compare.Options{
		Descriptor:  s.desc,
		Keys:        s.cfg.Keys,
		DiffTool:    s.cfg.DiffTool,
		Encoding:    s.encoding,
		Workers:     s.cfg.Workers,
		TempParent:  s.cfg.TempDir,
		Redactor:    preprocess.NewRedactor(s.cfg.Redaction.Patterns),
		Diagnostics: cmd.ErrOrStderr(),
		Color:       s.color,
		Runner:      diffRunner,
	}
	if template != "" {
		t, err := parser.ParseTemplate(template)
		if err != nil {
			return opts, fmt.Errorf("invalid template: %w", err)
		}
		opts.Template = t
	}
	return opts, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
