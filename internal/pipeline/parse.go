package pipeline

import (
	"strings"

	"codexnova/internal"
)

// ParseDelimited turns raw delimited text into header-keyed rows. The first
// line defines field names in positional order; all-whitespace lines are
// dropped and do not count toward row numbering. Short rows pad missing
// trailing fields with ""; cells beyond the header count are ignored.
// Malformed rows degrade to best-effort extraction, never an error.
func ParseDelimited(content string, delimiter rune) internal.ParsedSheet {
	lines := splitLines(content)
	if len(lines) == 0 {
		return internal.ParsedSheet{}
	}

	headers := splitLine(lines[0], delimiter)
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	sheet := internal.ParsedSheet{Headers: headers}
	for _, line := range lines[1:] {
		values := splitLine(line, delimiter)
		sheet.Rows = append(sheet.Rows, rowFromCells(headers, values, len(sheet.Rows)+2))
	}
	return sheet
}

// splitLine tokenizes one line, treating the delimiter as a separator only
// outside double quotes. Quote characters are not retained in the value.
func splitLine(line string, delimiter rune) []string {
	values := []string{}
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delimiter && !inQuotes:
			values = append(values, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	values = append(values, current.String())
	return values
}

func rowFromCells(headers, values []string, num int) internal.Row {
	row := internal.Row{Num: num, Fields: make(map[string]string, len(headers))}
	for i, h := range headers {
		if i < len(values) {
			row.Fields[h] = strings.TrimSpace(values[i])
		} else {
			row.Fields[h] = ""
		}
	}
	return row
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
