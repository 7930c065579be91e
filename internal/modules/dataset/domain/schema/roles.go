package schema

import "strings"

// Role is a semantic meaning assigned to a physical column by name-matching
// heuristics. The set is closed so query-shape selection stays exhaustive.
type Role int

const (
	RoleDate Role = iota
	RoleProduct
	RoleQuantity
	RolePrice
)

// Candidate names are tried in order; the first case-insensitive hit wins.
var (
	dateCandidates    = []string{"date", "order_date", "sale_date", "day", "timestamp", "created_at"}
	productCandidates = []string{"product", "item", "sku", "name"}
	// quantity/price resolve only against these literal names, no fuzzy match
	quantityCandidates = []string{"qty"}
	priceCandidates    = []string{"price"}
)

// ColumnRoleMap maps each role to the physical column that fills it, in the
// column's original casing. An empty string means the role is absent, which
// is a normal outcome, not an error.
type ColumnRoleMap struct {
	Date     string
	Product  string
	Quantity string
	Price    string
}

func (m ColumnRoleMap) HasDate() bool     { return m.Date != "" }
func (m ColumnRoleMap) HasProduct() bool  { return m.Product != "" }
func (m ColumnRoleMap) HasQuantity() bool { return m.Quantity != "" }
func (m ColumnRoleMap) HasPrice() bool    { return m.Price != "" }

// ResolveRoles derives the role map from an ordered column list. Pure; it
// never mutates or caches anything, so callers re-resolve on every request.
func ResolveRoles(columns []string) ColumnRoleMap {
	lower := make([]string, len(columns))
	for i, c := range columns {
		lower[i] = strings.ToLower(c)
	}

	pick := func(candidates []string) string {
		for _, cand := range candidates {
			for i, lc := range lower {
				if lc == cand {
					return columns[i]
				}
			}
		}
		return ""
	}

	return ColumnRoleMap{
		Date:     pick(dateCandidates),
		Product:  pick(productCandidates),
		Quantity: pick(quantityCandidates),
		Price:    pick(priceCandidates),
	}
}
