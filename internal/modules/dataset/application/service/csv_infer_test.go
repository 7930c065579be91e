package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	src := "date,product,qty,price\n2024-03-01,latte,3,4.50\n2024-03-01,mocha,1,5.00\n"
	header, rows, err := ParseCSV(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "product", "qty", "price"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-03-01", "latte", "3", "4.50"}, rows[0])
}

func TestParseCSVStripsBOMAndWhitespace(t *testing.T) {
	src := "\ufeffname , qty\n latte , 3\n"
	header, rows, err := ParseCSV(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "qty"}, header)
	assert.Equal(t, []string{"latte", "3"}, rows[0])
}

func TestParseCSVRaggedRows(t *testing.T) {
	src := "a,b,c\n1,2\n1,2,3,4\n"
	header, rows, err := ParseCSV(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, header, 3)
	// short rows pad with empty, long rows truncate
	assert.Equal(t, []string{"1", "2", ""}, rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, rows[1])
}

func TestParseCSVEmptyFile(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestInferColumnsTypes(t *testing.T) {
	header := []string{"n", "f", "flag", "d", "ts", "s"}
	rows := [][]string{
		{"1", "1.5", "true", "2024-03-01", "2024-03-01T10:00:00Z", "hello"},
		{"2", "2", "false", "2024-03-02", "2024-03-02 11:30:00", "world"},
	}
	defs, vals := InferColumns(header, rows)

	types := make(map[string]string)
	for _, d := range defs {
		types[d.Name] = d.Type
	}
	assert.Equal(t, "bigint", types["n"])
	assert.Equal(t, "double precision", types["f"])
	assert.Equal(t, "boolean", types["flag"])
	assert.Equal(t, "date", types["d"])
	assert.Equal(t, "timestamptz", types["ts"])
	assert.Equal(t, "text", types["s"])

	require.Len(t, vals, 2)
	assert.Equal(t, int64(1), vals[0][0])
	assert.Equal(t, 1.5, vals[0][1])
	assert.Equal(t, true, vals[0][2])
	assert.IsType(t, time.Time{}, vals[0][3])
	assert.Equal(t, "hello", vals[0][5])
}

func TestInferColumnsFirstCellSetsKind(t *testing.T) {
	// a lone boolean/date/timestamp cell must decide the column type by
	// itself, not get widened away against a numeric default
	header := []string{"flag", "d", "ts"}
	rows := [][]string{{"true", "2024-03-01", "2024-03-01T10:00:00Z"}}
	defs, vals := InferColumns(header, rows)

	assert.Equal(t, "boolean", defs[0].Type)
	assert.Equal(t, "date", defs[1].Type)
	assert.Equal(t, "timestamptz", defs[2].Type)
	assert.Equal(t, true, vals[0][0])
	assert.IsType(t, time.Time{}, vals[0][1])
	assert.IsType(t, time.Time{}, vals[0][2])
}

func TestInferColumnsLeadingEmptyCells(t *testing.T) {
	// empty cells before the first value must not influence the kind
	defs, vals := InferColumns([]string{"flag"}, [][]string{{""}, {"false"}})
	assert.Equal(t, "boolean", defs[0].Type)
	assert.Nil(t, vals[0][0])
	assert.Equal(t, false, vals[1][0])
}

func TestInferColumnsMixedDegradesToText(t *testing.T) {
	defs, vals := InferColumns([]string{"x"}, [][]string{{"42"}, {"latte"}})
	assert.Equal(t, "text", defs[0].Type)
	assert.Equal(t, "42", vals[0][0])
	assert.Equal(t, "latte", vals[1][0])
}

func TestInferColumnsIntWidensToDouble(t *testing.T) {
	defs, vals := InferColumns([]string{"x"}, [][]string{{"1"}, {"2.5"}})
	assert.Equal(t, "double precision", defs[0].Type)
	assert.Equal(t, 1.0, vals[0][0])
	assert.Equal(t, 2.5, vals[1][0])
}

func TestInferColumnsEmptyCellsBecomeNull(t *testing.T) {
	defs, vals := InferColumns([]string{"x"}, [][]string{{"1"}, {""}})
	assert.Equal(t, "bigint", defs[0].Type)
	assert.Nil(t, vals[1][0])
}

func TestInferColumnsAllEmptyIsText(t *testing.T) {
	defs, _ := InferColumns([]string{"x"}, [][]string{{""}, {""}})
	assert.Equal(t, "text", defs[0].Type)
}
