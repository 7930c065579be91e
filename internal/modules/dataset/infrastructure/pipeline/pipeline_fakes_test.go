package pipeline

import (
	"context"
	"fmt"

	"Caffinate/internal/modules/dataset/domain/dataset"
	"Caffinate/internal/modules/dataset/domain/repository"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeTableRepo struct {
	columns []string
	rows    [][]any
}

func (f *fakeTableRepo) Columns(ctx context.Context, table string) ([]string, error) {
	return f.columns, nil
}

func (f *fakeTableRepo) TableExists(ctx context.Context, table string) (bool, error) {
	return len(f.columns) > 0, nil
}

func (f *fakeTableRepo) RowCount(ctx context.Context, table string) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeTableRepo) Replace(ctx context.Context, table string, columns []dataset.ColumnDef, rows [][]any) error {
	return nil
}

func (f *fakeTableRepo) LoadRows(ctx context.Context, table string, limit int) ([]string, [][]any, error) {
	rows := f.rows
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return f.columns, rows, nil
}

type fakeVectorStore struct {
	ensured     int
	upserts     [][]repository.VectorUpsertItem
	searchHits  []repository.VectorSearchHit
	searchExprs []string
	searchTopKs []int
}

func (f *fakeVectorStore) EnsureCollection(ctx context.Context) error {
	f.ensured++
	return nil
}

func (f *fakeVectorStore) Upsert(ctx context.Context, items []repository.VectorUpsertItem) ([]string, error) {
	batch := make([]repository.VectorUpsertItem, len(items))
	copy(batch, items)
	f.upserts = append(f.upserts, batch)
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids, nil
}

func (f *fakeVectorStore) Search(ctx context.Context, vector []float32, topK int, expr string) ([]repository.VectorSearchHit, error) {
	f.searchExprs = append(f.searchExprs, expr)
	f.searchTopKs = append(f.searchTopKs, topK)
	return f.searchHits, nil
}

type fakeEmbedder struct {
	dim   int
	calls [][]string
}

func (f *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	f.calls = append(f.calls, texts)
	out := make([][]float64, len(texts))
	for i := range texts {
		vec := make([]float64, f.dim)
		for j := range vec {
			vec[j] = float64(i + j)
		}
		out[i] = vec
	}
	return out, nil
}

type fakeChatModel struct {
	reply   string
	prompts []string
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	for _, m := range input {
		f.prompts = append(f.prompts, m.Content)
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("streaming not supported")
}
