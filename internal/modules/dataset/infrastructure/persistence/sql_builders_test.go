package persistence

import (
	"testing"

	"Caffinate/internal/modules/dataset/domain/schema"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"demo__sales"`, quoteIdent("demo__sales"))
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}

func TestAggregateSQL(t *testing.T) {
	assert.Equal(t, `SELECT COUNT(*) FROM "t"`, countSQL("t"))
	assert.Equal(t, `SELECT SUM("qty"::numeric) FROM "t"`, sumQtySQL("t", "qty"))
	assert.Equal(t,
		`SELECT SUM(("qty"::numeric)*("price"::numeric)) FROM "t"`,
		sumRevenueSQL("t", "qty", "price"))
}

func TestDailySeriesSQLShapes(t *testing.T) {
	withMoney := schema.ColumnRoleMap{Date: "date", Quantity: "qty", Price: "price"}
	sql := dailySeriesSQL("t", withMoney)
	assert.Contains(t, sql, `SUM(("qty"::numeric)*("price"::numeric)) AS revenue`)
	assert.Contains(t, sql, `CAST("date" AS date)`)
	assert.Contains(t, sql, "GROUP BY d ORDER BY d")

	// missing price degrades to a count series
	countOnly := schema.ColumnRoleMap{Date: "date", Quantity: "qty"}
	sql = dailySeriesSQL("t", countOnly)
	assert.Contains(t, sql, "COUNT(*) AS ct")
	assert.NotContains(t, sql, "revenue")
}

func TestTopProductsSQLShapes(t *testing.T) {
	withQty := schema.ColumnRoleMap{Product: "product", Quantity: "qty"}
	sql := topProductsSQL("t", withQty)
	assert.Contains(t, sql, `SUM("qty"::numeric) AS qty`)
	assert.Contains(t, sql, "ORDER BY qty DESC LIMIT ?")

	noQty := schema.ColumnRoleMap{Product: "product"}
	sql = topProductsSQL("t", noQty)
	assert.Contains(t, sql, "COUNT(*) AS qty")
	assert.Contains(t, sql, "LIMIT ?")
}

func TestCreateTableSQL(t *testing.T) {
	sql := createTableSQL("demo__s", []string{"a", "b"}, []string{"bigint", "text"})
	assert.Equal(t, `CREATE TABLE "demo__s" ("a" bigint, "b" text)`, sql)
}

func TestInsertSQL(t *testing.T) {
	sql := insertSQL("demo__s", []string{"a", "b"}, 2)
	assert.Equal(t, `INSERT INTO "demo__s" ("a", "b") VALUES (?,?), (?,?)`, sql)
}
