package service

import (
	"context"
	"strings"

	"Caffinate/internal/modules/dataset/domain/dataset"
	"Caffinate/internal/modules/dataset/domain/repository"
	"Caffinate/pkg/xerr"
)

// AnalyticsService maps logical table names to physical ones and shapes the
// aggregation results for the metrics endpoints. Payloads are maps because
// the daily-series metric key ("revenue" vs "ct") is data-dependent.
type AnalyticsService interface {
	Kpis(ctx context.Context, logicalTable string) (map[string]any, error)
	DailySeries(ctx context.Context, logicalTable string) (map[string]any, error)
	TopProducts(ctx context.Context, logicalTable string, limit int) (map[string]any, error)
	Overview(ctx context.Context, logicalTable string) (map[string]any, error)
}

type analyticsServiceImpl struct {
	analytics repository.AnalyticsRepository
	tenantID  string
}

func NewAnalyticsService(analytics repository.AnalyticsRepository, tenantID string) AnalyticsService {
	return &analyticsServiceImpl{analytics: analytics, tenantID: tenantID}
}

func (s *analyticsServiceImpl) physical(logical string) (string, error) {
	logical = strings.TrimSpace(logical)
	if !dataset.IsIdentifier(logical) {
		return "", xerr.Invalid("Invalid table name.")
	}
	return dataset.PhysicalTable(s.tenantID, logical), nil
}

func (s *analyticsServiceImpl) Kpis(ctx context.Context, logicalTable string) (map[string]any, error) {
	table, err := s.physical(logicalTable)
	if err != nil {
		return nil, err
	}
	rep, err := s.analytics.Kpis(ctx, table)
	if err != nil {
		return nil, xerr.Upstream(err)
	}
	if !rep.Exists {
		return map[string]any{"table": rep.Table, "exists": false}, nil
	}
	return map[string]any{
		"table":         rep.Table,
		"exists":        true,
		"row_count":     rep.RowCount,
		"has_qty":       rep.HasQty,
		"has_price":     rep.HasPrice,
		"total_qty":     nullableFloat(rep.TotalQty),
		"total_revenue": nullableFloat(rep.TotalRevenue),
		"columns":       rep.Columns,
	}, nil
}

func (s *analyticsServiceImpl) DailySeries(ctx context.Context, logicalTable string) (map[string]any, error) {
	table, err := s.physical(logicalTable)
	if err != nil {
		return nil, err
	}
	series, err := s.analytics.DailySeries(ctx, table)
	if err != nil {
		return nil, xerr.Upstream(err)
	}
	if !series.HasDate {
		return map[string]any{"table": series.Table, "has_date": false, "points": []any{}}, nil
	}
	points := make([]map[string]any, 0, len(series.Points))
	for _, p := range series.Points {
		points = append(points, map[string]any{"date": p.Date, series.Metric: p.Value})
	}
	return map[string]any{
		"table":    series.Table,
		"has_date": true,
		"metric":   series.Metric,
		"points":   points,
	}, nil
}

func (s *analyticsServiceImpl) TopProducts(ctx context.Context, logicalTable string, limit int) (map[string]any, error) {
	table, err := s.physical(logicalTable)
	if err != nil {
		return nil, err
	}
	if limit < 1 || limit > 50 {
		return nil, xerr.Invalid("limit must be between 1 and 50")
	}
	top, err := s.analytics.TopProducts(ctx, table, limit)
	if err != nil {
		return nil, xerr.Upstream(err)
	}
	if !top.HasProduct {
		return map[string]any{"table": top.Table, "has_product": false, "items": []any{}}, nil
	}
	items := make([]map[string]any, 0, len(top.Items))
	for _, it := range top.Items {
		items = append(items, map[string]any{"product": it.Product, "qty": it.Qty})
	}
	return map[string]any{
		"table":       top.Table,
		"has_product": true,
		"items":       items,
	}, nil
}

func (s *analyticsServiceImpl) Overview(ctx context.Context, logicalTable string) (map[string]any, error) {
	table, err := s.physical(logicalTable)
	if err != nil {
		return nil, err
	}
	ov, err := s.analytics.Overview(ctx, table)
	if err != nil {
		return nil, xerr.Upstream(err)
	}
	return map[string]any{
		"table":   ov.Table,
		"exists":  ov.Exists,
		"rows":    ov.Rows,
		"columns": ov.Columns,
	}, nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
