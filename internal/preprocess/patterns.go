package preprocess

import (
	"regexp"
)

// RedactionPattern replaces every match of Regex with Placeholder.
type RedactionPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Placeholder string
	Description string
}

// Volatile substrings that differ between otherwise identical runs.
var (
	// Hex literals: 0xf0c371cdfcaca
	hexRegex = regexp.MustCompile(`0x[0-9a-fA-F]+`)

	// MAC/Bluetooth addresses: F0:C3:71:CD:CA:CA, 72:5a:7d:6c:26:19
	macRegex = regexp.MustCompile(`[0-9a-fA-F]{2}:[0-9a-fA-F]{2}:[0-9a-fA-F]{2}:[0-9a-fA-F]{2}:[0-9a-fA-F]{2}:[0-9a-fA-F]{2}`)

	// UUIDs, uppercase only: 22A0B758-3FC3-480F-87A0-AECCA283CACA
	uuidRegex = regexp.MustCompile(`[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}`)

	// Verbose dates: 2008-01-01 12:27:32.963591 AM
	dateRegex = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}.\d+ [AMP]+`)

	// Java-style hash codes: @ce7ed73
	hashRegex = regexp.MustCompile(`@[0-9a-f]+`)

	// Phone numbers, plain or URL encoded: +33 6 12 34 56 78, %2B33612345678
	phoneRegex = regexp.MustCompile(`(?:\+|%2B)[0-9][0-9 ]{5,}[0-9]`)
)

// BuiltInPatterns lists the redaction rules in the order they are applied.
// Later rules never match the placeholders inserted by earlier ones.
var BuiltInPatterns = []RedactionPattern{
	{Name: "hex", Regex: hexRegex, Placeholder: "<hex>", Description: "Hexadecimal literals"},
	{Name: "mac", Regex: macRegex, Placeholder: "<mac>", Description: "MAC and Bluetooth addresses"},
	{Name: "uuid", Regex: uuidRegex, Placeholder: "<uuid>", Description: "Uppercase UUIDs"},
	{Name: "date", Regex: dateRegex, Placeholder: "<date>", Description: "Timestamps embedded in messages"},
	{Name: "hash", Regex: hashRegex, Placeholder: "<hash>", Description: "Object hash codes"},
	{Name: "phonenumber", Regex: phoneRegex, Placeholder: "<phonenumber>", Description: "Phone numbers"},
}

// DefaultPatterns returns the names of all built-in rules, in order.
func DefaultPatterns() []string {
	names := make([]string, len(BuiltInPatterns))
	for i, p := range BuiltInPatterns {
		names[i] = p.Name
	}
	return names
}

// GetPatterns returns the built-in patterns whose names are listed, keeping
// the built-in order. Unknown names are silently ignored.
func GetPatterns(names []string) []RedactionPattern {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	patterns := make([]RedactionPattern, 0, len(names))
	for _, p := range BuiltInPatterns {
		if want[p.Name] {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
