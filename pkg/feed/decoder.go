// Package feed turns spreadsheet CSV exports into rows of cells and fetches
// them from the configured task groups.
package feed

import (
	"fmt"
	"io"
	"strings"
)

const byteOrderMark = "\uFEFF"

// Decode splits delimited text into rows of trimmed cells.
//
// Quoted fields may contain commas, line breaks and doubled quotes ("" is one
// literal quote). Rows whose cells are all empty are dropped, so trailing
// newlines never produce phantom rows. A leading byte-order mark is ignored.
func Decode(text string) [][]string {
	text = strings.TrimPrefix(text, byteOrderMark)

	var (
		rows    [][]string
		row     []string
		cell    strings.Builder
		inQuote bool
	)

	endCell := func() {
		row = append(row, strings.TrimSpace(cell.String()))
		cell.Reset()
	}
	endRow := func() {
		endCell()
		if !isBlank(row) {
			rows = append(rows, row)
		}
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			if inQuote && i+1 < len(text) && text[i+1] == '"' {
				cell.WriteByte('"')
				i++
				continue
			}
			inQuote = !inQuote
		case inQuote:
			cell.WriteByte(c)
		case c == ',':
			endCell()
		case c == '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()
		case c == '\n':
			endRow()
		default:
			cell.WriteByte(c)
		}
	}

	if cell.Len() > 0 || len(row) > 0 {
		endRow()
	}
	return rows
}

// DecodeReader reads r to the end and decodes it.
func DecodeReader(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return Decode(string(data)), nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
