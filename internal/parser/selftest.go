package parser

import "fmt"

// ExampleResult is the outcome of checking one bundled example line.
type ExampleResult struct {
	Format      string `json:"format"`
	Line        string `json:"line"`
	Matched     bool   `json:"matched"`
	Date        string `json:"date,omitempty"`
	Reformatted string `json:"reformatted,omitempty"`
	Error       string `json:"error,omitempty"`
}

// OK reports whether the example matched and its date, if any, parsed.
func (r ExampleResult) OK() bool {
	return r.Matched && r.Error == ""
}

// RoundTrip reports whether reformatting the parsed date gave back the
// original text. Some grammars lose precision, so this is advisory.
func (r ExampleResult) RoundTrip() bool {
	return r.Reformatted == "" || r.Reformatted == r.Date
}

// SelfTest matches every example of d against its own pattern and, when the
// format has a date grammar, parses and reformats the extracted date.
func SelfTest(d *Descriptor) []ExampleResult {
	results := make([]ExampleResult, 0, len(d.examples))
	for _, line := range d.examples {
		r := ExampleResult{Format: d.name, Line: line}
		fields, ok := d.Parse(line)
		if !ok {
			r.Error = "line does not match pattern"
			results = append(results, r)
			continue
		}
		r.Matched = true

		if d.date != nil {
			r.Date = fields[FieldDate]
			t, err := d.ParseDate(r.Date)
			if err != nil {
				r.Error = err.Error()
			} else {
				r.Reformatted = d.date.format(t)
			}
		}

		if _, err := d.template.Render(withClean(fields)); err != nil {
			r.Error = fmt.Sprintf("render: %v", err)
		}
		results = append(results, r)
	}
	return results
}

// SelfTestAll runs SelfTest over the whole registry.
func SelfTestAll() []ExampleResult {
	var all []ExampleResult
	for _, d := range registry {
		all = append(all, SelfTest(d)...)
	}
	return all
}

func withClean(f Fields) Fields {
	out := make(Fields, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	if c, ok := f[FieldContent]; ok {
		out[FieldCleanContent] = c
	}
	return out
}
