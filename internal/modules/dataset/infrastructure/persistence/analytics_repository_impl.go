package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"Caffinate/internal/modules/dataset/domain/dataset"
	"Caffinate/internal/modules/dataset/domain/repository"
	"Caffinate/internal/modules/dataset/domain/schema"

	"gorm.io/gorm"
)

type analyticsRepositoryImpl struct {
	db     *gorm.DB
	tables repository.TableRepository
}

func NewAnalyticsRepository(db *gorm.DB, tables repository.TableRepository) repository.AnalyticsRepository {
	return &analyticsRepositoryImpl{db: db, tables: tables}
}

func (r *analyticsRepositoryImpl) Kpis(ctx context.Context, table string) (*dataset.KpiReport, error) {
	cols, err := r.tables.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return &dataset.KpiReport{Table: table, Exists: false}, nil
	}
	roles := schema.ResolveRoles(cols)

	rowCount, err := r.tables.RowCount(ctx, table)
	if err != nil {
		return nil, err
	}

	report := &dataset.KpiReport{
		Table:    table,
		Exists:   true,
		RowCount: rowCount,
		HasQty:   roles.HasQuantity(),
		HasPrice: roles.HasPrice(),
		Columns:  cols,
	}

	if roles.HasQuantity() {
		total, err := r.scanNullFloat(ctx, sumQtySQL(table, roles.Quantity))
		if err != nil {
			return nil, err
		}
		report.TotalQty = total
	}
	if roles.HasQuantity() && roles.HasPrice() {
		total, err := r.scanNullFloat(ctx, sumRevenueSQL(table, roles.Quantity, roles.Price))
		if err != nil {
			return nil, err
		}
		report.TotalRevenue = total
	}
	return report, nil
}

func (r *analyticsRepositoryImpl) DailySeries(ctx context.Context, table string) (*dataset.DailySeries, error) {
	cols, err := r.tables.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	roles := schema.ResolveRoles(cols)
	if !roles.HasDate() {
		return &dataset.DailySeries{Table: table, HasDate: false, Points: []dataset.SeriesPoint{}}, nil
	}

	metric := "ct"
	if roles.HasQuantity() && roles.HasPrice() {
		metric = "revenue"
	}

	rows, err := r.db.WithContext(ctx).Raw(dailySeriesSQL(table, roles)).Rows()
	if err != nil {
		return nil, fmt.Errorf("daily series of %s: %w", table, err)
	}
	defer rows.Close()

	points := []dataset.SeriesPoint{}
	for rows.Next() {
		var day time.Time
		var val sql.NullFloat64
		if err := rows.Scan(&day, &val); err != nil {
			return nil, fmt.Errorf("scan daily point of %s: %w", table, err)
		}
		points = append(points, dataset.SeriesPoint{
			Date:  day.Format("2006-01-02"),
			Value: val.Float64, // NULL aggregates surface as 0.0
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &dataset.DailySeries{Table: table, HasDate: true, Metric: metric, Points: points}, nil
}

func (r *analyticsRepositoryImpl) TopProducts(ctx context.Context, table string, limit int) (*dataset.TopProducts, error) {
	cols, err := r.tables.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	roles := schema.ResolveRoles(cols)
	if !roles.HasProduct() {
		return &dataset.TopProducts{Table: table, HasProduct: false, Items: []dataset.ProductStat{}}, nil
	}

	rows, err := r.db.WithContext(ctx).Raw(topProductsSQL(table, roles), limit).Rows()
	if err != nil {
		return nil, fmt.Errorf("top products of %s: %w", table, err)
	}
	defer rows.Close()

	items := []dataset.ProductStat{}
	for rows.Next() {
		var product sql.NullString
		var qty sql.NullFloat64
		if err := rows.Scan(&product, &qty); err != nil {
			return nil, fmt.Errorf("scan product of %s: %w", table, err)
		}
		items = append(items, dataset.ProductStat{Product: product.String, Qty: qty.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &dataset.TopProducts{Table: table, HasProduct: true, Items: items}, nil
}

func (r *analyticsRepositoryImpl) Overview(ctx context.Context, table string) (*dataset.Overview, error) {
	exists, err := r.tables.TableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &dataset.Overview{Table: table, Exists: false, Rows: 0, Columns: []string{}}, nil
	}

	rows, err := r.tables.RowCount(ctx, table)
	if err != nil {
		return nil, err
	}
	cols, err := r.tables.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	return &dataset.Overview{Table: table, Exists: true, Rows: rows, Columns: cols}, nil
}

func (r *analyticsRepositoryImpl) scanNullFloat(ctx context.Context, query string) (*float64, error) {
	var v sql.NullFloat64
	if err := r.db.WithContext(ctx).Raw(query).Row().Scan(&v); err != nil {
		return nil, fmt.Errorf("aggregate query failed: %w", err)
	}
	if !v.Valid {
		return nil, nil
	}
	f := v.Float64
	return &f, nil
}
