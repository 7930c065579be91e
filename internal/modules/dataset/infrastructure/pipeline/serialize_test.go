package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRowToText(t *testing.T) {
	cols := []string{"date", "product", "qty", "price"}
	vals := []any{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "latte", int64(3), 4.5}

	text := RowToText("demo__sales", cols, vals)
	assert.Equal(t, "table=demo__sales; date=2024-03-01; product=latte; qty=3; price=4.5", text)
}

func TestRowToTextDeterministic(t *testing.T) {
	cols := []string{"a", "b"}
	vals := []any{"x", int64(1)}
	first := RowToText("t", cols, vals)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, RowToText("t", cols, vals))
	}
}

func TestRowToTextNullRendersEmpty(t *testing.T) {
	text := RowToText("t", []string{"a", "b"}, []any{nil, "x"})
	assert.Equal(t, "table=t; a=; b=x", text)
}

func TestRowToMetadataDropsNulls(t *testing.T) {
	md := RowToMetadata("t", []string{"a", "b"}, []any{nil, int64(2)}, "text here")
	_, hasA := md["a"]
	assert.False(t, hasA)
	assert.Equal(t, int64(2), md["b"])
	assert.Equal(t, "t", md["table"])
	assert.Equal(t, "text here", md["text"])
}

func TestRowToMetadataColumnCap(t *testing.T) {
	cols := make([]string, 12)
	vals := make([]any, 12)
	for i := range cols {
		cols[i] = string(rune('a' + i))
		vals[i] = int64(i)
	}
	md := RowToMetadata("t", cols, vals, "x")
	// table + text + first 8 projected columns
	assert.Len(t, md, 10)
	_, has9th := md["i"]
	assert.False(t, has9th)
}

func TestRowToMetadataTruncation(t *testing.T) {
	long := strings.Repeat("x", 1000)
	md := RowToMetadata("t", []string{"s"}, []any{long}, long)
	assert.Len(t, md["text"], 800)
	assert.Len(t, md["s"], 256)
}

func TestRowToMetadataListCoercion(t *testing.T) {
	entries := make([]string, 30)
	for i := range entries {
		entries[i] = strings.Repeat("y", 200)
	}
	md := RowToMetadata("t", []string{"tags"}, []any{entries}, "x")
	list, ok := md["tags"].([]string)
	assert.True(t, ok)
	assert.Len(t, list, 20)
	for _, e := range list {
		assert.LessOrEqual(t, len(e), 128)
	}
}

func TestMetaValueNumericBytes(t *testing.T) {
	// decimal columns scan as raw bytes; they must surface as numbers
	v, ok := metaValue([]byte("12.50"))
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	v, ok = metaValue([]byte("not a number"))
	assert.True(t, ok)
	assert.Equal(t, "not a number", v)
}

func TestIsoTime(t *testing.T) {
	midnight := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01", isoTime(midnight))

	stamped := time.Date(2024, 3, 1, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01T13:45:00Z", isoTime(stamped))
}
