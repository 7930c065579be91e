package vectordb

import (
	"context"
	"fmt"

	"Caffinate/internal/modules/dataset/domain/repository"

	mclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const vectorField = "vector"

// MilvusStore implements repository.VectorStore on the stable v1 SDK.
// One collection per deployment: id (varchar pk), vector (float, fixed dim),
// table_name (varchar, equality-filterable) and metadata (JSON).
type MilvusStore struct {
	cli        mclient.Client
	collection string
	vectorDim  int
}

var _ repository.VectorStore = (*MilvusStore)(nil)

func NewMilvusStore(cli mclient.Client, collection string, vectorDim int) (*MilvusStore, error) {
	if cli == nil {
		return nil, fmt.Errorf("milvus client is nil")
	}
	if collection == "" {
		return nil, fmt.Errorf("milvus collection name is empty")
	}
	if vectorDim <= 0 {
		return nil, fmt.Errorf("vector dim must be positive, got %d", vectorDim)
	}
	return &MilvusStore{cli: cli, collection: collection, vectorDim: vectorDim}, nil
}

// EnsureCollection creates the collection and its AUTOINDEX (cosine) if it
// does not exist yet. A pre-existing collection of the same name is reused.
func (s *MilvusStore) EnsureCollection(ctx context.Context) error {
	cols, err := s.cli.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, c := range cols {
		if c.Name == s.collection {
			return s.cli.LoadCollection(ctx, s.collection, false)
		}
	}

	sch := &entity.Schema{
		CollectionName: s.collection,
		Description:    "Caffinate dataset row vectors",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				TypeParams: map[string]string{"max_length": "256"},
			},
			{
				Name:       vectorField,
				DataType:   entity.FieldTypeFloatVector,
				TypeParams: map[string]string{entity.TypeParamDim: fmt.Sprintf("%d", s.vectorDim)},
			},
			{
				Name:       "table_name",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "256"},
			},
			{
				Name:     "metadata",
				DataType: entity.FieldTypeJSON,
			},
		},
	}

	if err := s.cli.CreateCollection(ctx, sch, entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("create collection %s: %w", s.collection, err)
	}

	idx, err := entity.NewIndexAUTOINDEX(entity.COSINE)
	if err != nil {
		return err
	}
	if err := s.cli.CreateIndex(ctx, s.collection, vectorField, idx, false); err != nil {
		return fmt.Errorf("create index on %s: %w", s.collection, err)
	}

	return s.cli.LoadCollection(ctx, s.collection, false)
}

// Upsert writes one batch. Identical ids overwrite prior vectors, which is
// what makes re-indexing a table idempotent at the identity level.
func (s *MilvusStore) Upsert(ctx context.Context, items []repository.VectorUpsertItem) ([]string, error) {
	if len(items) == 0 {
		return []string{}, nil
	}

	ids := make([]string, 0, len(items))
	vectors := make([][]float32, 0, len(items))
	tables := make([]string, 0, len(items))
	metas := make([][]byte, 0, len(items))

	for _, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("upsert item missing ID")
		}
		if len(it.Vector) != s.vectorDim {
			return nil, fmt.Errorf("vector dim mismatch for id=%s: got %d want %d", it.ID, len(it.Vector), s.vectorDim)
		}
		ids = append(ids, it.ID)
		vectors = append(vectors, it.Vector)
		tables = append(tables, it.TableName)
		m := it.MetadataJSON
		if m == "" {
			m = "{}"
		}
		metas = append(metas, []byte(m))
	}

	_, err := s.cli.Upsert(
		ctx,
		s.collection,
		"", // partition
		entity.NewColumnVarChar("id", ids),
		entity.NewColumnFloatVector(vectorField, s.vectorDim, vectors),
		entity.NewColumnVarChar("table_name", tables),
		entity.NewColumnJSONBytes("metadata", metas),
	)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Search returns hits in the store's own score-ranked order.
func (s *MilvusStore) Search(ctx context.Context, vector []float32, topK int, expr string) ([]repository.VectorSearchHit, error) {
	if len(vector) != s.vectorDim {
		return nil, fmt.Errorf("query vector dim mismatch: got %d want %d", len(vector), s.vectorDim)
	}

	sp, _ := entity.NewIndexAUTOINDEXSearchParam(1)

	res, err := s.cli.Search(
		ctx,
		s.collection,
		nil,
		expr,
		[]string{"id", "table_name", "metadata"},
		[]entity.Vector{entity.FloatVector(vector)},
		vectorField,
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, err
	}

	hits := make([]repository.VectorSearchHit, 0)
	if len(res) == 0 {
		return hits, nil
	}

	sr := res[0]
	if sr.Err != nil {
		return nil, sr.Err
	}

	getCol := func(name string) entity.Column {
		for _, c := range sr.Fields {
			if c.Name() == name {
				return c
			}
		}
		return nil
	}
	tableCol := getCol("table_name")
	metaCol := getCol("metadata")

	for i := 0; i < sr.ResultCount; i++ {
		id, _ := sr.IDs.GetAsString(i)

		hit := repository.VectorSearchHit{
			ID:    id,
			Score: sr.Scores[i],
		}
		if tableCol != nil {
			v, _ := tableCol.GetAsString(i)
			hit.TableName = v
		}
		if metaCol != nil {
			v, _ := metaCol.Get(i)
			if bs, ok := v.([]byte); ok {
				hit.MetadataJSON = string(bs)
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
