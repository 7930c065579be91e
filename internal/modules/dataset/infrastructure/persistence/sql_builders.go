package persistence

import (
	"fmt"
	"strings"

	"Caffinate/internal/modules/dataset/domain/schema"
)

// quoteIdent double-quotes a Postgres identifier, escaping embedded quotes.
// This is the single interpolation boundary for dynamic table/column names;
// row values always go through parameter binding instead.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func countSQL(table string) string {
	return fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteIdent(table))
}

// Aggregates cast through numeric so text-typed uploads still sum with
// arbitrary precision; the result is converted to float only at the scan.
func sumQtySQL(table, qtyCol string) string {
	return fmt.Sprintf(`SELECT SUM(%s::numeric) FROM %s`, quoteIdent(qtyCol), quoteIdent(table))
}

func sumRevenueSQL(table, qtyCol, priceCol string) string {
	return fmt.Sprintf(`SELECT SUM((%s::numeric)*(%s::numeric)) FROM %s`,
		quoteIdent(qtyCol), quoteIdent(priceCol), quoteIdent(table))
}

func dailySeriesSQL(table string, roles schema.ColumnRoleMap) string {
	dcol := quoteIdent(roles.Date)
	if roles.HasQuantity() && roles.HasPrice() {
		return fmt.Sprintf(
			`SELECT CAST(%s AS date) AS d, SUM((%s::numeric)*(%s::numeric)) AS revenue FROM %s GROUP BY d ORDER BY d`,
			dcol, quoteIdent(roles.Quantity), quoteIdent(roles.Price), quoteIdent(table))
	}
	return fmt.Sprintf(
		`SELECT CAST(%s AS date) AS d, COUNT(*) AS ct FROM %s GROUP BY d ORDER BY d`,
		dcol, quoteIdent(table))
}

func topProductsSQL(table string, roles schema.ColumnRoleMap) string {
	pcol := quoteIdent(roles.Product)
	if roles.HasQuantity() {
		return fmt.Sprintf(
			`SELECT %s AS product, SUM(%s::numeric) AS qty FROM %s GROUP BY %s ORDER BY qty DESC LIMIT ?`,
			pcol, quoteIdent(roles.Quantity), quoteIdent(table), pcol)
	}
	return fmt.Sprintf(
		`SELECT %s AS product, COUNT(*) AS qty FROM %s GROUP BY %s ORDER BY qty DESC LIMIT ?`,
		pcol, quoteIdent(table), pcol)
}

func createTableSQL(table string, columns []string, types []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c) + " " + types[i]
	}
	return fmt.Sprintf(`CREATE TABLE %s (%s)`, quoteIdent(table), strings.Join(defs, ", "))
}

func insertSQL(table string, columns []string, rowCount int) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	ph := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
	rows := make([]string, rowCount)
	for i := range rows {
		rows[i] = ph
	}
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s`,
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(rows, ", "))
}
