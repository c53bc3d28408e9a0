// Package importer parses ledger CSV exports into rows ready for the
// import service. A file must carry a header row with the columns
// Account, Date, Source, Amount and Category, in any order.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Required header column names, matched case-sensitively.
var requiredColumns = []string{"Account", "Date", "Source", "Amount", "Category"}

// Row is one data row of a ledger CSV. Fields are raw strings; the
// import service validates and converts them. Line numbers data rows
// from 2 (the header counts as row 1, blank lines are skipped).
type Row struct {
	Line     int
	Account  string
	Date     string
	Source   string
	Amount   string
	Category string
}

// Parse reads a ledger CSV. It fails on structural problems only: an
// unreadable file or a header missing required columns. Malformed data
// rows are returned as-is for the caller to judge.
func Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required headers: %s", strings.Join(missing, ", "))
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", len(rows)+2, err)
		}
		if isBlank(rec) {
			continue
		}
		rows = append(rows, Row{
			Line:     len(rows) + 2,
			Account:  field(rec, cols["Account"]),
			Date:     field(rec, cols["Date"]),
			Source:   field(rec, cols["Source"]),
			Amount:   field(rec, cols["Amount"]),
			Category: field(rec, cols["Category"]),
		})
	}
	return rows, nil
}

func field(rec []string, idx int) string {
	if idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
