// Package csvio implements the CSV text format used for bill uploads and
// template downloads.
//
// The parser is a single-pass, quote-aware scanner rather than a wrapper
// around encoding/csv: uploaded bill files come from spreadsheet exports
// with mixed line endings, stray quotes, and trailing blank lines, and the
// review grid needs a reader that recovers from all of them instead of
// aborting the upload. Malformed quoting is never an error here; end of
// input closes any open quote.
package csvio

import "strings"

// Parse scans raw CSV text into a header row and data rows.
//
// It accepts \n, \r\n, and bare \r line endings (a \r\n pair is consumed as
// one terminator), quoted fields containing commas, newlines, and doubled
// quotes, and input with no trailing newline. Trailing rows whose cells are
// all empty are dropped. The first remaining row is returned as the header
// row; for empty input both return values are empty.
//
// Rows are positional cell slices. Keying cells by header name, and padding
// short rows, is the caller's job (see core.Batch.Load).
func Parse(text string) (headers []string, rows [][]string) {
	var (
		field    strings.Builder
		row      []string
		all      [][]string
		inQuotes bool
	)

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					// Escaped quote inside a quoted field.
					field.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				field.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case ',':
			row = append(row, field.String())
			field.Reset()
		case '\n', '\r':
			row = append(row, field.String())
			field.Reset()
			all = append(all, row)
			row = nil
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		default:
			field.WriteByte(c)
		}
	}

	// Flush the last field and row even without a trailing terminator.
	if field.Len() > 0 || len(row) > 0 {
		row = append(row, field.String())
		all = append(all, row)
	}

	// Drop trailing blank lines.
	for len(all) > 0 && isBlankRow(all[len(all)-1]) {
		all = all[:len(all)-1]
	}

	if len(all) == 0 {
		return nil, nil
	}
	return all[0], all[1:]
}

// isBlankRow reports whether every cell in the row is the empty string.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// Stringify renders records back to CSV text in header order.
//
// Missing keys render as empty cells. A cell is quote-wrapped, with embedded
// quotes doubled, only when it contains a comma, quote, or line break; lines
// are joined with \n regardless of the line endings the source file used.
// Parse(Stringify(h, r)) reconstructs r field for field as long as r has no
// fully-empty trailing rows.
func Stringify(headers []string, records []map[string]string) string {
	var b strings.Builder

	writeRow(&b, headers)
	cells := make([]string, len(headers))
	for _, rec := range records {
		for i, h := range headers {
			cells[i] = rec[h]
		}
		b.WriteByte('\n')
		writeRow(&b, cells)
	}

	return b.String()
}

// StringifyRows is Stringify for positional rows, used where cells are
// already in header order (e.g. the template download's example row).
func StringifyRows(headers []string, rows [][]string) string {
	var b strings.Builder

	writeRow(&b, headers)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}

	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		writeCell(b, cell)
	}
}

func writeCell(b *strings.Builder, cell string) {
	if !strings.ContainsAny(cell, ",\"\n\r") {
		b.WriteString(cell)
		return
	}
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
	b.WriteByte('"')
}
