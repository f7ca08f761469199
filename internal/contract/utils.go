package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Warming severity label constants.
const (
	SevereValue   = "Severe"   // Severe warming
	HighValue     = "High"     // High warming
	ModerateValue = "Moderate" // Moderate warming
	LowValue      = "Low"      // Low warming
)

// Color variables for console output.
var (
	SevereColor   = color.New(color.FgRed, color.Bold)     // severeColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // highColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // moderateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // lowColor represents informational / low-priority signal.
)

// GetPlainLabel returns a plain text label indicating the severity of a
// peak warming value in degrees Celsius. This is the core logic used for
// CSV, JSON, and table printing.
func GetPlainLabel(warming float64) string {
	switch {
	case warming >= 4.0:
		return SevereValue
	case warming >= 2.0:
		return HighValue
	case warming >= 1.5:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(warming float64) string {
	text := GetPlainLabel(warming)

	switch text {
	case SevereValue:
		return SevereColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based
// on the provided file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file backing the
// projection cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scendiff_cache.db"
	}
	return filepath.Join(homeDir, ".scendiff_cache.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file backing the
// run history store.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scendiff_runs.db"
	}
	return filepath.Join(homeDir, ".scendiff_runs.db")
}

// TruncateLabel truncates a display label to a maximum width with an
// ellipsis prefix. Requires maxWidth > 3 so there is room for both the
// "..." prefix and at least one character of content.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Empty strings and "auto" fall back to the provided default so the
// color flag can track whether output is a terminal table.
func ParseBoolString(s string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return def, nil
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
