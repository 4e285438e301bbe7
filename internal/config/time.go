package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var durationPart = regexp.MustCompile(`(\d+)(ms|[dhms])`)

// ParseDuration parses a duration string supporting standard Go durations and
// a "d" unit for days. Examples: "500ms", "5m", "1h30m", "2d".
func ParseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	matches := durationPart.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}

	totalLen := 0
	total := time.Duration(0)

	for _, match := range matches {
		totalLen += match[1] - match[0]
		value, err := strconv.ParseInt(s[match[2]:match[3]], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}

		switch s[match[4]:match[5]] {
		case "d":
			total += time.Hour * 24 * time.Duration(value)
		case "h":
			total += time.Hour * time.Duration(value)
		case "m":
			total += time.Minute * time.Duration(value)
		case "s":
			total += time.Second * time.Duration(value)
		case "ms":
			total += time.Millisecond * time.Duration(value)
		}
	}

	if totalLen != len(s) {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}

	return total, nil
}
