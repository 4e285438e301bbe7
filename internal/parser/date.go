package parser

import (
	"fmt"
	"strings"
	"time"
)

// dateCodec converts between a strptime-style grammar and Go time layouts.
// Parsing and formatting use different layouts because strptime is lenient
// on input (space padded days, variable fraction width) while strftime
// output is fixed width.
type dateCodec struct {
	grammar      string
	parseLayout  string
	formatLayout string
	longNames    bool
	locale       *Locale
}

type directive struct {
	parse  string
	format string
}

var directives = map[byte]directive{
	'a': {"Mon", "Mon"},
	'A': {"Monday", "Monday"},
	'b': {"Jan", "Jan"},
	'h': {"Jan", "Jan"},
	'B': {"January", "January"},
	'd': {"_2", "02"},
	'e': {"_2", "_2"},
	'm': {"01", "01"},
	'y': {"06", "06"},
	'Y': {"2006", "2006"},
	'H': {"15", "15"},
	'I': {"03", "03"},
	'M': {"04", "04"},
	'S': {"05", "05"},
	'p': {"PM", "PM"},
	'j': {"002", "002"},
	'z': {"-0700", "-0700"},
	'Z': {"MST", "MST"},
	'%': {"%", "%"},
}

func newDateCodec(grammar, localeName string) (*dateCodec, error) {
	c := &dateCodec{grammar: grammar}

	var parse, format strings.Builder
	for i := 0; i < len(grammar); i++ {
		ch := grammar[i]
		if ch != '%' {
			// "%S.%f": the separator belongs to the fraction chunk.
			if (ch == '.' || ch == ',') && strings.HasPrefix(grammar[i+1:], "%f") {
				parse.WriteString(string(ch) + "999999")
				format.WriteString(string(ch) + "000000")
				i += 2
				continue
			}
			parse.WriteByte(ch)
			format.WriteByte(ch)
			continue
		}
		if i+1 >= len(grammar) {
			return nil, fmt.Errorf("grammar %q: trailing %%: %w", grammar, ErrUnsupportedDirective)
		}
		i++
		d, ok := directives[grammar[i]]
		if !ok {
			return nil, fmt.Errorf("grammar %q: %%%c: %w", grammar, grammar[i], ErrUnsupportedDirective)
		}
		if grammar[i] == 'A' || grammar[i] == 'B' {
			c.longNames = true
		}
		parse.WriteString(d.parse)
		format.WriteString(d.format)
	}
	c.parseLayout = parse.String()
	c.formatLayout = format.String()

	if localeName != "" {
		loc, err := LookupLocale(localeName)
		if err != nil {
			return nil, err
		}
		c.locale = loc
	}
	return c, nil
}

func (c *dateCodec) parse(s string) (time.Time, error) {
	value := s
	if c.locale != nil {
		value = c.locale.toEnglish(value, c.longNames)
	}
	t, err := time.Parse(c.parseLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q with %q: %w", s, c.grammar, err)
	}
	return t, nil
}

func (c *dateCodec) format(t time.Time) string {
	out := t.Format(c.formatLayout)
	if c.locale != nil {
		out = c.locale.fromEnglish(out)
	}
	return out
}
