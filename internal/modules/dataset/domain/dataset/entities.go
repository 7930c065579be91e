package dataset

import (
	"regexp"
	"strings"
	"time"
)

// DatasetRecord is the registry row kept per logical dataset of a tenant.
// Re-uploading the same logical name updates the existing record.
type DatasetRecord struct {
	Id            string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	TenantID      string    `gorm:"column:tenant_id;type:varchar(64);uniqueIndex:uniq_tenant_logical;not null" json:"tenant_id"`
	LogicalName   string    `gorm:"column:logical_name;type:varchar(128);uniqueIndex:uniq_tenant_logical;not null" json:"logical_name"`
	PhysicalTable string    `gorm:"column:physical_table;type:varchar(200);not null" json:"physical_table"`
	RowCount      int64     `gorm:"column:row_count" json:"row_count"`
	ColumnCount   int       `gorm:"column:column_count" json:"column_count"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (DatasetRecord) TableName() string {
	return "dataset_records"
}

// ColumnDef is one physical column of an ingested table, in CSV header order.
type ColumnDef struct {
	Name string
	// Type is the Postgres column type inferred from the CSV values
	// (bigint, double precision, boolean, date, timestamptz or text).
	Type string
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether a logical table name is acceptable as an
// identifier (letter or underscore first, then letters/digits/underscores).
func IsIdentifier(name string) bool {
	return identRe.MatchString(name)
}

// SanitizeName replaces every character outside [A-Za-z0-9_] with an
// underscore. Idempotent: sanitizing twice yields the same string.
func SanitizeName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// PhysicalTable derives the tenant-prefixed physical table name for a
// logical one. Deterministic for a given (tenant, logical) pair.
func PhysicalTable(tenant, logical string) string {
	return SanitizeName(tenant) + "__" + SanitizeName(logical)
}
