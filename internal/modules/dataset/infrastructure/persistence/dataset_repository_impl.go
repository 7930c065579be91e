package persistence

import (
	"context"
	"time"

	"Caffinate/internal/modules/dataset/domain/dataset"
	"Caffinate/internal/modules/dataset/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type datasetRepositoryImpl struct {
	db *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) repository.DatasetRepository {
	return &datasetRepositoryImpl{db: db}
}

// Upsert keys on (tenant_id, logical_name) so a re-upload updates the
// existing registry row instead of creating a duplicate.
func (r *datasetRepositoryImpl) Upsert(ctx context.Context, rec *dataset.DatasetRecord) error {
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "logical_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"physical_table", "row_count", "column_count", "updated_at"}),
	}).Create(rec).Error
}

func (r *datasetRepositoryImpl) ListByTenant(ctx context.Context, tenantID string) ([]dataset.DatasetRecord, error) {
	var recs []dataset.DatasetRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("updated_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
