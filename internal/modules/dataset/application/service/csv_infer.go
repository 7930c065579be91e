package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"Caffinate/internal/modules/dataset/domain/dataset"
)

// ParseCSV reads the whole upload. The first record is the header; every
// following record is padded or truncated to the header width. Cell values
// stay strings here; typing happens in InferColumns.
func ParseCSV(r io.Reader) (header []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err = cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, nil, err
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		row := make([]string, len(header))
		for i := range row {
			if i < len(rec) {
				row[i] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// column kinds, ordered from most to least specific
const (
	kindBigint = iota
	kindDouble
	kindBoolean
	kindDate
	kindTimestamp
	kindText
)

var columnTypes = map[int]string{
	kindBigint:    "bigint",
	kindDouble:    "double precision",
	kindBoolean:   "boolean",
	kindDate:      "date",
	kindTimestamp: "timestamptz",
	kindText:      "text",
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// InferColumns assigns each column the narrowest Postgres type that fits
// every non-empty value, and converts the string cells into native Go
// values for parameter binding. Empty cells become NULL.
func InferColumns(header []string, rows [][]string) ([]dataset.ColumnDef, [][]any) {
	kinds := make([]int, len(header))
	for col := range header {
		kinds[col] = inferKind(rows, col)
	}

	defs := make([]dataset.ColumnDef, len(header))
	for i, h := range header {
		defs[i] = dataset.ColumnDef{Name: h, Type: columnTypes[kinds[i]]}
	}

	converted := make([][]any, len(rows))
	for r, row := range rows {
		vals := make([]any, len(header))
		for c := range header {
			vals[c] = convertCell(row[c], kinds[c])
		}
		converted[r] = vals
	}
	return defs, converted
}

func inferKind(rows [][]string, col int) int {
	seen := false
	kind := kindText
	for _, row := range rows {
		v := row[col]
		if v == "" {
			continue
		}
		k := cellKind(v)
		if !seen {
			// the first non-empty cell sets the kind outright; widening
			// only reconciles disagreements between cells
			kind = k
			seen = true
			continue
		}
		kind = widen(kind, k)
		if kind == kindText {
			return kindText
		}
	}
	return kind
}

func cellKind(v string) int {
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return kindBigint
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return kindDouble
	}
	switch strings.ToLower(v) {
	case "true", "false":
		return kindBoolean
	}
	if _, err := time.Parse("2006-01-02", v); err == nil {
		return kindDate
	}
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return kindTimestamp
		}
	}
	return kindText
}

// widen merges the kind seen so far with the kind of the next cell.
// Only bigint widens to double; every other mismatch degrades to text.
func widen(current, next int) int {
	if current == next {
		return current
	}
	if (current == kindBigint && next == kindDouble) || (current == kindDouble && next == kindBigint) {
		return kindDouble
	}
	if (current == kindDate && next == kindTimestamp) || (current == kindTimestamp && next == kindDate) {
		return kindTimestamp
	}
	return kindText
}

func convertCell(v string, kind int) any {
	if v == "" {
		return nil
	}
	switch kind {
	case kindBigint:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return v
		}
		return n
	case kindDouble:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return v
		}
		return f
	case kindBoolean:
		return strings.EqualFold(v, "true")
	case kindDate:
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return v
		}
		return t
	case kindTimestamp:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t
		}
		return v
	default:
		return v
	}
}
