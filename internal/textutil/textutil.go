// Package textutil holds small display-text helpers shared by the CLI and
// the workflow manager.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Title upper-cases the first letter of each word for display labels.
func Title(value string) string {
	return titleCaser.String(strings.TrimSpace(value))
}

// Truncate shortens a string for table display, appending an ellipsis when
// anything was cut. Limits below 4 return the bare prefix.
func Truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || len(value) <= limit {
		return value
	}
	if limit < 4 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}
