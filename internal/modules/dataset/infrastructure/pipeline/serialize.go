package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sanitization limits imposed by the vector store: metadata values must be
// primitives or lists of strings, no nulls, bounded sizes. Violating them
// fails the whole upsert, so coercion is total and never falls through.
const (
	maxMetadataCols   = 8
	maxTextChars      = 800
	maxStringChars    = 256
	maxListEntries    = 20
	maxListEntryChars = 128
)

// RowToText flattens one row into the "table=t; col=val; ..." form used both
// as embedding input and as retrieval context. Deterministic: the same row
// always yields byte-identical text.
func RowToText(table string, columns []string, values []any) string {
	parts := make([]string, 0, len(columns)+1)
	parts = append(parts, "table="+table)
	for i, c := range columns {
		var v any
		if i < len(values) {
			v = values[i]
		}
		parts = append(parts, c+"="+scalarText(v))
	}
	return strings.Join(parts, "; ")
}

// RowToMetadata projects the first maxMetadataCols columns into the
// sanitized metadata record. Null values are omitted entirely; the store
// cannot represent them. The record always carries table and text.
func RowToMetadata(table string, columns []string, values []any, text string) map[string]any {
	md := map[string]any{
		"table": table,
		"text":  truncate(text, maxTextChars),
	}
	n := len(columns)
	if n > maxMetadataCols {
		n = maxMetadataCols
	}
	for i := 0; i < n; i++ {
		var raw any
		if i < len(values) {
			raw = values[i]
		}
		v, ok := metaValue(raw)
		if !ok {
			continue
		}
		md[columns[i]] = v
	}
	return md
}

func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case time.Time:
		return isoTime(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// metaValue coerces a store-native scalar into one of the three shapes the
// vector store accepts: primitive, string, or list of strings. The second
// return is false for nulls, which are dropped by the caller.
func metaValue(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case bool:
		return t, true
	case int:
		return t, true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case string:
		return truncate(t, maxStringChars), true
	case []byte:
		// numeric/decimal columns surface as raw bytes through database/sql
		if f, err := strconv.ParseFloat(string(t), 64); err == nil {
			return f, true
		}
		return truncate(string(t), maxStringChars), true
	case time.Time:
		return isoTime(t), true
	case []string:
		return stringList(len(t), func(i int) string { return t[i] }), true
	case []any:
		return stringList(len(t), func(i int) string { return scalarText(t[i]) }), true
	default:
		return truncate(fmt.Sprintf("%v", t), maxStringChars), true
	}
}

func stringList(n int, at func(int) string) []string {
	if n > maxListEntries {
		n = maxListEntries
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, truncate(at(i), maxListEntryChars))
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// isoTime keeps pure dates compact ("2024-03-01") and timestamps RFC 3339.
func isoTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
