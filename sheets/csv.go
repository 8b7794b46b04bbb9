package sheets

import "strings"

// The sheet export quotes fields that embed commas or newlines. The scanners
// below treat a quote character as a toggle for inside-field state, so quoted
// commas and newlines never split a record.

// splitRows splits raw CSV text into rows, honouring newlines inside quoted
// fields. Blank rows are dropped.
func splitRows(data string) []string {
	var rows []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range data {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
			current.WriteRune(ch)
		case ch == '\n' && !inQuotes:
			if row := strings.TrimSpace(current.String()); row != "" {
				rows = append(rows, row)
			}
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	if row := strings.TrimSpace(current.String()); row != "" {
		rows = append(rows, row)
	}
	return rows
}

// splitFields splits one row into fields, honouring commas inside quoted
// fields. Fields are trimmed and surrounding quotes stripped.
func splitFields(row string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range row {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// splitNames splits a free-text comma-joined names field into clean tokens.
func splitNames(field string) []string {
	if field == "" {
		return nil
	}
	var names []string
	for _, n := range strings.Split(field, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}
