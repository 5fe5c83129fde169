package sheet

import (
	"fmt"
	"strings"
)

// Row maps a column header to its trimmed cell value
type Row map[string]string

// Get returns the trimmed value of column, or "" when absent
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Table is one published sheet read into memory
type Table struct {
	Key     string   `json:"key"`
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of data rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the header row contains column
func (t *Table) HasColumn(column string) bool {
	for _, h := range t.Headers {
		if h == column {
			return true
		}
	}
	return false
}

// FromRecords builds a table from raw records whose first record is the header row.
// Header cells are trimmed, blank headers become "Column N" and repeated headers get
// a numeric suffix. Records with no non-blank cell are skipped, short records are padded
// and cells beyond the header width are dropped.
func FromRecords(key string, records [][]string) *Table {
	table := &Table{Key: key}
	if len(records) == 0 {
		return table
	}

	table.Headers = normalizeHeaders(records[0])
	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		row := make(Row, len(table.Headers))
		for i, header := range table.Headers {
			if i < len(record) {
				row[header] = strings.TrimSpace(record[i])
			} else {
				row[header] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, cell := range raw {
		name := strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		headers[i] = name
	}
	return headers
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
