package parser

import "errors"

var (
	// ErrUnknownFormat is returned when a format name is not registered.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrTemplateFieldMissing is returned when a template names a field the
	// record does not carry.
	ErrTemplateFieldMissing = errors.New("template field missing")

	ErrNoDateGrammar        = errors.New("format has no date grammar")
	ErrUnsupportedDirective = errors.New("unsupported date directive")
	ErrUnknownLocale        = errors.New("unknown locale")
)
