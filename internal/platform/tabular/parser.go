// Package tabular decodes the comma-delimited text published by the spreadsheet
// read source into position-indexed rows.
//
// The decoder is narrower than RFC 4180: a double quote only toggles
// the quoted state, and a single leading and trailing quote is stripped from each
// field. Escaped quotes ("") are left in the field as-is.
package tabular

import "strings"

const (
	delimiter = ','
	quote     = '"'
)

// Row is one line of the source table, indexed by column position
type Row []string

// Len returns the number of fields in the row
func (r Row) Len() int {
	return len(r)
}

// Field returns the trimmed field at index i, or "" when the row is too short
func (r Row) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// IsBlank reports whether every field is empty after trimming
func (r Row) IsBlank() bool {
	for _, f := range r {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Parse splits text into rows on newline and each row into fields on unquoted
// commas. It never fails: malformed input yields rows with fewer fields than
// a caller may expect, so callers must check Len before indexing.
func Parse(text string) []Row {
	lines := strings.Split(text, "\n")
	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, ParseLine(strings.TrimSuffix(line, "\r")))
	}
	return rows
}

// ParseLine splits a single line into fields. An empty line yields one empty field.
func ParseLine(line string) Row {
	var fields Row
	start := 0
	inQuotes := false

	for i := 0; i < len(line); i++ {
		switch line[i] {
		case quote:
			inQuotes = !inQuotes
		case delimiter:
			if !inQuotes {
				fields = append(fields, stripQuotes(line[start:i]))
				start = i + 1
			}
		}
	}

	return append(fields, stripQuotes(line[start:]))
}

// ParseTrimmed is the header-discovered table variant: quote characters only
// toggle the quoted state and are dropped from the field, every field is trimmed
// and rows whose fields are all empty are skipped.
func ParseTrimmed(text string) []Row {
	lines := strings.Split(text, "\n")
	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		row := parseLineDroppingQuotes(strings.TrimSuffix(line, "\r"))
		if row.IsBlank() {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func parseLineDroppingQuotes(line string) Row {
	var fields Row
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == quote:
			inQuotes = !inQuotes
		case c == delimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	return append(fields, strings.TrimSpace(current.String()))
}

func stripQuotes(field string) string {
	field = strings.TrimPrefix(field, string(quote))
	return strings.TrimSuffix(field, string(quote))
}
