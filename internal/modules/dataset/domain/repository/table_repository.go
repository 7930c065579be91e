package repository

import (
	"context"

	"Caffinate/internal/modules/dataset/domain/dataset"
)

// TableRepository owns the physical, tenant-prefixed tables that hold
// uploaded CSV rows. Identifiers passed in must already be sanitized; the
// implementation quotes them before interpolation and binds all values.
type TableRepository interface {
	// Columns returns the ordered column-name list of a table, empty when
	// the table does not exist.
	Columns(ctx context.Context, table string) ([]string, error)

	// TableExists probes the catalog without touching the table itself.
	TableExists(ctx context.Context, table string) (bool, error)

	RowCount(ctx context.Context, table string) (int64, error)

	// Replace drops and recreates the table inside one transaction, then
	// inserts all rows. Re-upload semantics: previous contents are gone.
	Replace(ctx context.Context, table string, columns []dataset.ColumnDef, rows [][]any) error

	// LoadRows reads up to limit rows (all when limit <= 0) in declared
	// column order, as a read-only snapshot.
	LoadRows(ctx context.Context, table string, limit int) (columns []string, rows [][]any, err error)
}

// AnalyticsRepository builds and executes the aggregation query shapes.
// Roles are re-resolved from live metadata on every call; schema may have
// changed since the previous request.
type AnalyticsRepository interface {
	Kpis(ctx context.Context, table string) (*dataset.KpiReport, error)
	DailySeries(ctx context.Context, table string) (*dataset.DailySeries, error)
	TopProducts(ctx context.Context, table string, limit int) (*dataset.TopProducts, error)
	Overview(ctx context.Context, table string) (*dataset.Overview, error)
}

// DatasetRepository persists the per-tenant dataset registry.
type DatasetRepository interface {
	Upsert(ctx context.Context, rec *dataset.DatasetRecord) error
	ListByTenant(ctx context.Context, tenantID string) ([]dataset.DatasetRecord, error)
}
