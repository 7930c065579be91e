package service

import (
	"context"
	"strings"

	"Caffinate/internal/modules/dataset/domain/dataset"
	"Caffinate/internal/modules/dataset/infrastructure/pipeline"
	"Caffinate/pkg/xerr"
)

// IndexService pushes one table through the indexing pipeline.
type IndexService interface {
	IndexTable(ctx context.Context, logicalTable string, limit int) (*pipeline.IndexResult, error)
}

type indexServiceImpl struct {
	pipeline *pipeline.IndexPipeline
	tenantID string
}

// NewIndexService accepts a nil pipeline; indexing then reports the vector
// store as unconfigured instead of failing at startup.
func NewIndexService(p *pipeline.IndexPipeline, tenantID string) IndexService {
	return &indexServiceImpl{pipeline: p, tenantID: tenantID}
}

func (s *indexServiceImpl) IndexTable(ctx context.Context, logicalTable string, limit int) (*pipeline.IndexResult, error) {
	if s.pipeline == nil {
		return nil, xerr.New(xerr.InternalServerError, "vector store is not configured")
	}
	logical := strings.TrimSpace(logicalTable)
	if logical == "" {
		return nil, xerr.Invalid("table is required")
	}
	physical := dataset.PhysicalTable(s.tenantID, logical)

	result, err := s.pipeline.Run(ctx, physical, limit)
	if err != nil {
		return nil, xerr.Upstream(err)
	}
	return result, nil
}
