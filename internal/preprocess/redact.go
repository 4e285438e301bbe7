package preprocess

// Redactor normalizes message bodies by replacing volatile substrings with
// stable placeholders, so that equivalent lines from different runs become
// byte-identical.
//
// A Redactor holds no mutable state and is safe for concurrent use.
type Redactor struct {
	patterns []RedactionPattern
}

// NewRedactor creates a Redactor applying the named rules. An empty or fully
// unknown list selects every built-in rule.
func NewRedactor(patternNames []string) *Redactor {
	patterns := GetPatterns(patternNames)
	if len(patterns) == 0 {
		patterns = GetPatterns(DefaultPatterns())
	}
	return &Redactor{patterns: patterns}
}

// Redact applies every rule, in order, to the whole text.
//
// Example:
//
//	"mask 0x0 from F0:C3:71:CD:CA:CA" → "mask <hex> from <mac>"
func (r *Redactor) Redact(text string) string {
	result := text
	for _, pattern := range r.patterns {
		result = pattern.Regex.ReplaceAllLiteralString(result, pattern.Placeholder)
	}
	return result
}

// RedactAndCount redacts text and returns the number of replacements made.
func (r *Redactor) RedactAndCount(text string) (string, int) {
	count := 0
	result := text
	for _, pattern := range r.patterns {
		matches := pattern.Regex.FindAllStringIndex(result, -1)
		if len(matches) == 0 {
			continue
		}
		count += len(matches)
		result = pattern.Regex.ReplaceAllLiteralString(result, pattern.Placeholder)
	}
	return result, count
}

// Patterns returns the names of the active rules in application order.
func (r *Redactor) Patterns() []string {
	names := make([]string, len(r.patterns))
	for i, p := range r.patterns {
		names[i] = p.Name
	}
	return names
}

var defaultRedactor = NewRedactor(nil)

// Redact normalizes text with every built-in rule.
func Redact(text string) string {
	return defaultRedactor.Redact(text)
}
