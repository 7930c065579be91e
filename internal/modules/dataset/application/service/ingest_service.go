package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"Caffinate/internal/modules/dataset/application/dto/respond"
	"Caffinate/internal/modules/dataset/domain/dataset"
	"Caffinate/internal/modules/dataset/domain/repository"
	"Caffinate/pkg/util"
	"Caffinate/pkg/xerr"
	"Caffinate/pkg/zlog"

	"go.uber.org/zap"
)

// IngestService loads a CSV upload into a tenant-prefixed physical table.
// Re-uploading the same logical name replaces the table contents.
type IngestService interface {
	IngestDataset(ctx context.Context, logicalTable string, csvSrc io.Reader) (*respond.IngestRespond, error)
	ListDatasets(ctx context.Context) ([]dataset.DatasetRecord, error)
}

type ingestServiceImpl struct {
	tables   repository.TableRepository
	datasets repository.DatasetRepository
	tenantID string
}

func NewIngestService(tables repository.TableRepository, datasets repository.DatasetRepository, tenantID string) IngestService {
	return &ingestServiceImpl{tables: tables, datasets: datasets, tenantID: tenantID}
}

func (s *ingestServiceImpl) IngestDataset(ctx context.Context, logicalTable string, csvSrc io.Reader) (*respond.IngestRespond, error) {
	logical := strings.TrimSpace(logicalTable)
	if !dataset.IsIdentifier(logical) {
		return nil, xerr.Invalid("Invalid table name.")
	}
	physical := dataset.PhysicalTable(s.tenantID, logical)

	header, rows, err := ParseCSV(csvSrc)
	if err != nil {
		return nil, xerr.Invalid(fmt.Sprintf("CSV read failed: %v", err))
	}
	if len(rows) == 0 {
		return nil, xerr.Invalid("CSV is empty.")
	}

	columns, values := InferColumns(header, rows)
	if err := s.tables.Replace(ctx, physical, columns, values); err != nil {
		return nil, xerr.Upstream(fmt.Errorf("DB write failed: %w", err))
	}

	rec := &dataset.DatasetRecord{
		Id:            util.GenerateUUID(),
		TenantID:      s.tenantID,
		LogicalName:   logical,
		PhysicalTable: physical,
		RowCount:      int64(len(rows)),
		ColumnCount:   len(header),
	}
	if err := s.datasets.Upsert(ctx, rec); err != nil {
		// the upload itself succeeded; registry bookkeeping must not undo it
		zlog.Error("dataset registry upsert failed", zap.String("table", physical), zap.Error(err))
	}

	return &respond.IngestRespond{
		Table:         logical,
		PhysicalTable: physical,
		Rows:          len(rows),
		Columns:       header,
		Tenant:        s.tenantID,
		Message:       "ingested",
	}, nil
}

func (s *ingestServiceImpl) ListDatasets(ctx context.Context) ([]dataset.DatasetRecord, error) {
	recs, err := s.datasets.ListByTenant(ctx, s.tenantID)
	if err != nil {
		return nil, xerr.Upstream(err)
	}
	return recs, nil
}
