package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"Caffinate/internal/modules/dataset/domain/repository"
	"Caffinate/pkg/zlog"

	"github.com/cloudwego/eino/components/embedding"
	"go.uber.org/zap"
)

// upsertBatchSize bounds one vector-store call; batches run sequentially and
// already-flushed batches stay committed if a later one fails.
const upsertBatchSize = 200

type IndexResult struct {
	Table       string `json:"table"`
	RowsIndexed int    `json:"rows_indexed"`
	Dim         int    `json:"dim,omitempty"`
	Message     string `json:"message,omitempty"`
}

// IndexPipeline converts a physical table into vector-store items:
// load -> serialize -> ensure collection -> embed -> batched upsert.
type IndexPipeline struct {
	tables   repository.TableRepository
	vs       repository.VectorStore
	embedder embedding.Embedder
	dim      int
}

func NewIndexPipeline(tables repository.TableRepository, vs repository.VectorStore, embedder embedding.Embedder, dim int) (*IndexPipeline, error) {
	if tables == nil {
		return nil, fmt.Errorf("table repository is nil")
	}
	if vs == nil {
		return nil, fmt.Errorf("vector store is nil")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is nil")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("vector dim must be positive")
	}
	return &IndexPipeline{tables: tables, vs: vs, embedder: embedder, dim: dim}, nil
}

// Run indexes up to limit rows of table (all rows when limit <= 0). Item ids
// are "{table}:{ordinal}", so re-running on an unchanged table overwrites
// prior vectors instead of duplicating them. Any step error aborts the call;
// there is no partial-failure recovery beyond already-flushed batches.
func (p *IndexPipeline) Run(ctx context.Context, table string, limit int) (*IndexResult, error) {
	cols, rows, err := p.tables.LoadRows(ctx, table, limit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// nothing to embed; do not touch the embedding or vector services
		return &IndexResult{Table: table, RowsIndexed: 0, Message: "table is empty"}, nil
	}

	texts := make([]string, len(rows))
	metas := make([]map[string]any, len(rows))
	for i, row := range rows {
		texts[i] = RowToText(table, cols, row)
		metas[i] = RowToMetadata(table, cols, row, texts[i])
	}

	if err := p.vs.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	vectors, err := p.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %d rows: %w", len(texts), err)
	}
	if len(vectors) != len(rows) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d rows", len(vectors), len(rows))
	}

	dim := p.dim
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}

	items := make([]repository.VectorUpsertItem, len(rows))
	for i, vec := range vectors {
		mdJSON, err := json.Marshal(metas[i])
		if err != nil {
			return nil, fmt.Errorf("marshal metadata for row %d: %w", i, err)
		}
		items[i] = repository.VectorUpsertItem{
			ID:           fmt.Sprintf("%s:%d", table, i),
			Vector:       toFloat32(vec),
			TableName:    table,
			MetadataJSON: string(mdJSON),
		}
	}

	for start := 0; start < len(items); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(items) {
			end = len(items)
		}
		if _, err := p.vs.Upsert(ctx, items[start:end]); err != nil {
			return nil, fmt.Errorf("upsert batch at %d: %w", start, err)
		}
	}

	zlog.Info("indexed table", zap.String("table", table), zap.Int("rows", len(items)), zap.Int("dim", dim))
	return &IndexResult{Table: table, RowsIndexed: len(items), Dim: dim}, nil
}

func toFloat32(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}
