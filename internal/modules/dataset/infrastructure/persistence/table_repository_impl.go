package persistence

import (
	"context"
	"fmt"

	"Caffinate/internal/modules/dataset/domain/dataset"
	"Caffinate/internal/modules/dataset/domain/repository"

	"gorm.io/gorm"
)

type tableRepositoryImpl struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) repository.TableRepository {
	return &tableRepositoryImpl{db: db}
}

func (r *tableRepositoryImpl) Columns(ctx context.Context, table string) ([]string, error) {
	var cols []string
	err := r.db.WithContext(ctx).
		Raw(`SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = ? ORDER BY ordinal_position`, table).
		Scan(&cols).Error
	if err != nil {
		return nil, fmt.Errorf("introspect columns of %s: %w", table, err)
	}
	return cols, nil
}

func (r *tableRepositoryImpl) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).
		Raw(`SELECT to_regclass(?) IS NOT NULL`, quoteIdent(table)).
		Scan(&exists).Error
	if err != nil {
		return false, fmt.Errorf("probe table %s: %w", table, err)
	}
	return exists, nil
}

func (r *tableRepositoryImpl) RowCount(ctx context.Context, table string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(countSQL(table)).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", table, err)
	}
	return count, nil
}

// insertChunk keeps a single multi-row INSERT well under the bind-parameter
// ceiling (65535 for Postgres).
const insertChunk = 500

func (r *tableRepositoryImpl) Replace(ctx context.Context, table string, columns []dataset.ColumnDef, rows [][]any) error {
	names := make([]string, len(columns))
	types := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
		types[i] = c.Type
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(table))).Error; err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
		if err := tx.Exec(createTableSQL(table, names, types)).Error; err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}

		chunk := insertChunk
		if len(columns) > 0 && chunk*len(columns) > 60000 {
			chunk = 60000 / len(columns)
			if chunk < 1 {
				chunk = 1
			}
		}
		for start := 0; start < len(rows); start += chunk {
			end := start + chunk
			if end > len(rows) {
				end = len(rows)
			}
			batch := rows[start:end]
			args := make([]any, 0, len(batch)*len(columns))
			for _, row := range batch {
				args = append(args, row...)
			}
			if err := tx.Exec(insertSQL(table, names, len(batch)), args...).Error; err != nil {
				return fmt.Errorf("insert into %s: %w", table, err)
			}
		}
		return nil
	})
}

func (r *tableRepositoryImpl) LoadRows(ctx context.Context, table string, limit int) ([]string, [][]any, error) {
	q := fmt.Sprintf(`SELECT * FROM %s`, quoteIdent(table))
	if limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, limit)
	}

	sqlRows, err := r.db.WithContext(ctx).Raw(q).Rows()
	if err != nil {
		return nil, nil, fmt.Errorf("load rows of %s: %w", table, err)
	}
	defer sqlRows.Close()

	cols, err := sqlRows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]any
	for sqlRows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := sqlRows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row of %s: %w", table, err)
		}
		out = append(out, vals)
	}
	if err := sqlRows.Err(); err != nil {
		return nil, nil, err
	}
	return cols, out, nil
}
