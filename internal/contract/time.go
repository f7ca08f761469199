package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Define the regular expression to capture "N [units]".
var timeoutDurationRe = regexp.MustCompile(`^(\d+)\s+(hour|minute|second)s?$`)

// ParseTimeoutDuration converts strings like "2 minutes" or "90s" into a
// single time.Duration. It first tries Go's built-in time.ParseDuration
// for standard formats, then falls back to custom parsing for
// human-readable formats.
func ParseTimeoutDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	// Try Go's built-in duration parsing first (e.g., "90s", "2m", "1h")
	if duration, err := time.ParseDuration(s); err == nil {
		if duration <= 0 {
			return 0, errors.New("timeout must be positive")
		}
		return duration, nil
	}

	// Bare numbers are read as seconds (e.g., "120")
	if value, err := strconv.Atoi(s); err == nil {
		if value <= 0 {
			return 0, errors.New("timeout must be positive")
		}
		return time.Duration(value) * time.Second, nil
	}

	// Fall back to custom parsing for human-readable formats (e.g., "2 minutes")
	s = strings.ToLower(s)
	matches := timeoutDurationRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid timeout format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	var totalDuration time.Duration

	switch unit {
	case "hour":
		totalDuration = time.Duration(value) * time.Hour
	case "minute":
		totalDuration = time.Duration(value) * time.Minute
	case "second":
		totalDuration = time.Duration(value) * time.Second
	default:
		// Should be caught by the regex
		return 0, errors.New("unsupported time unit")
	}

	if totalDuration == 0 {
		return 0, errors.New("timeout must be positive")
	}

	return totalDuration, nil
}
