package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/aurora/schema"
)

// DateTimeFormat is the timestamp layout used in tables and CSV output.
const DateTimeFormat = "2006-01-02 15:04:05"

// Outcome label constants.
const (
	RetrievedValue = "Retrieved"
	SkippedValue   = "Skipped"
	ClampedValue   = "Clamped"
)

// Color variables for console output.
var (
	RetrievedColor = color.New(color.FgGreen, color.Bold) // RetrievedColor marks a line with a record.
	SkippedColor   = color.New(color.FgYellow)            // SkippedColor marks a line absent from the data.
	WarnColor      = color.New(color.FgMagenta, color.Bold)
)

// GetPlainLabel returns a plain text label for a group outcome.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(status schema.OutcomeStatus) string {
	switch status {
	case schema.RetrievedOutcome:
		return RetrievedValue
	case schema.SkippedOutcome:
		return SkippedValue
	default:
		return string(status)
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(status schema.OutcomeStatus) string {
	text := GetPlainLabel(status)

	switch status {
	case schema.RetrievedOutcome:
		return RetrievedColor.Sprint(text)
	case schema.SkippedOutcome:
		return SkippedColor.Sprint(text)
	default:
		return WarnColor.Sprint(text)
	}
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

// GetRunDBFilePath returns the path to the SQLite DB file for the run store.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".aurora_runs.db"
	}
	return filepath.Join(homeDir, ".aurora_runs.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
