package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexPipelineRun(t *testing.T) {
	tables := &fakeTableRepo{
		columns: []string{"product", "qty"},
		rows: [][]any{
			{"latte", int64(3)},
			{"mocha", int64(1)},
		},
	}
	vs := &fakeVectorStore{}
	emb := &fakeEmbedder{dim: 8}

	p, err := NewIndexPipeline(tables, vs, emb, 8)
	require.NoError(t, err)

	res, err := p.Run(context.Background(), "demo__sales", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.RowsIndexed)
	assert.Equal(t, 8, res.Dim)
	assert.Equal(t, 1, vs.ensured)

	require.Len(t, vs.upserts, 1)
	items := vs.upserts[0]
	require.Len(t, items, 2)
	assert.Equal(t, "demo__sales:0", items[0].ID)
	assert.Equal(t, "demo__sales:1", items[1].ID)
	assert.Equal(t, "demo__sales", items[0].TableName)
	assert.Contains(t, items[0].MetadataJSON, `"text"`)
	assert.Contains(t, items[0].MetadataJSON, "latte")
}

func TestIndexPipelineBatches(t *testing.T) {
	rows := make([][]any, 450)
	for i := range rows {
		rows[i] = []any{fmt.Sprintf("p%d", i)}
	}
	tables := &fakeTableRepo{columns: []string{"product"}, rows: rows}
	vs := &fakeVectorStore{}

	p, err := NewIndexPipeline(tables, vs, &fakeEmbedder{dim: 4}, 4)
	require.NoError(t, err)

	res, err := p.Run(context.Background(), "t", 0)
	require.NoError(t, err)
	assert.Equal(t, 450, res.RowsIndexed)

	require.Len(t, vs.upserts, 3)
	assert.Len(t, vs.upserts[0], 200)
	assert.Len(t, vs.upserts[1], 200)
	assert.Len(t, vs.upserts[2], 50)
	assert.Equal(t, "t:449", vs.upserts[2][49].ID)
}

func TestIndexPipelineEmptyTable(t *testing.T) {
	tables := &fakeTableRepo{columns: []string{"a"}}
	vs := &fakeVectorStore{}
	emb := &fakeEmbedder{dim: 4}

	p, err := NewIndexPipeline(tables, vs, emb, 4)
	require.NoError(t, err)

	res, err := p.Run(context.Background(), "t", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.RowsIndexed)
	assert.Equal(t, "table is empty", res.Message)
	// no services touched for an empty table
	assert.Zero(t, vs.ensured)
	assert.Empty(t, emb.calls)
}

func TestIndexPipelineLimit(t *testing.T) {
	rows := make([][]any, 10)
	for i := range rows {
		rows[i] = []any{int64(i)}
	}
	tables := &fakeTableRepo{columns: []string{"n"}, rows: rows}
	vs := &fakeVectorStore{}

	p, err := NewIndexPipeline(tables, vs, &fakeEmbedder{dim: 2}, 2)
	require.NoError(t, err)

	res, err := p.Run(context.Background(), "t", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.RowsIndexed)
}

func TestNewIndexPipelineValidation(t *testing.T) {
	vs := &fakeVectorStore{}
	emb := &fakeEmbedder{dim: 4}
	tables := &fakeTableRepo{}

	_, err := NewIndexPipeline(nil, vs, emb, 4)
	assert.Error(t, err)
	_, err = NewIndexPipeline(tables, nil, emb, 4)
	assert.Error(t, err)
	_, err = NewIndexPipeline(tables, vs, nil, 4)
	assert.Error(t, err)
	_, err = NewIndexPipeline(tables, vs, emb, 0)
	assert.Error(t, err)
}
