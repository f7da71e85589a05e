// Package normalize provides canonicalization helpers for schedule data.
// Matching and deduplication logic must never branch on raw spreadsheet
// values; everything compares canonical forms produced here.
package normalize

import (
	"fmt"
	"strings"
	"time"
)

// weekdayAliases maps common weekday spellings and abbreviations to the
// canonical lowercase English day name.
//
//nolint:gochecknoglobals // Static lookup table for day normalization
var weekdayAliases = map[string]string{
	"mon": "monday", "monday": "monday",
	"tue": "tuesday", "tues": "tuesday", "tuesday": "tuesday",
	"wed": "wednesday", "weds": "wednesday", "wednesday": "wednesday",
	"thu": "thursday", "thur": "thursday", "thurs": "thursday", "thursday": "thursday",
	"fri": "friday", "friday": "friday",
	"sat": "saturday", "saturday": "saturday",
	"sun": "sunday", "sunday": "sunday",
}

// Title canonicalizes a session title for matching: lowercased,
// whitespace trimmed and collapsed. Punctuation is preserved so that
// genuinely different titles ("Acro 1" vs "Acro 1.5") stay distinct.
func Title(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Name canonicalizes a person name for overlap comparison.
func Name(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Day canonicalizes a day value. Accepts weekday names or abbreviations
// in any case ("Monday", "mon") and ISO dates ("2026-05-01"); ISO dates
// pass through unchanged. Unrecognized values are lowercased and trimmed
// so matching still behaves case-insensitively.
func Day(s string) string {
	trimmed := strings.TrimSpace(s)
	lower := strings.ToLower(trimmed)

	if canonical, ok := weekdayAliases[lower]; ok {
		return canonical
	}

	if _, err := time.Parse("2006-01-02", trimmed); err == nil {
		return trimmed
	}

	return lower
}

// Clock canonicalizes an HH:MM wall-clock time, zero-padding the hour
// ("9:00" becomes "09:00"). Returns an error for values that are not a
// valid 24h time.
func Clock(s string) (string, error) {
	trimmed := strings.TrimSpace(s)

	parsed, err := time.Parse("15:04", trimmed)
	if err != nil {
		// Retry with a single-digit hour.
		parsed, err = time.Parse("3:04", trimmed)
		if err != nil {
			return "", fmt.Errorf("invalid time %q: expected HH:MM", s)
		}
	}

	return parsed.Format("15:04"), nil
}

// List splits a comma-separated value into trimmed, non-empty entries.
// Order is preserved; empties between commas are dropped.
func List(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NamesOverlap reports whether the two name lists share at least one
// entry after canonicalization.
func NamesOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	seen := make(map[string]bool, len(a))
	for _, name := range a {
		seen[Name(name)] = true
	}
	for _, name := range b {
		if seen[Name(name)] {
			return true
		}
	}
	return false
}
