package pipeline

import (
	"context"
	"fmt"
	"testing"

	"Caffinate/internal/modules/dataset/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hit(id, text string, score float32) repository.VectorSearchHit {
	return repository.VectorSearchHit{
		ID:           id,
		Score:        score,
		MetadataJSON: fmt.Sprintf(`{"text":%q,"table":"t"}`, text),
	}
}

func TestBuildContextRespectsBudget(t *testing.T) {
	hits := []repository.VectorSearchHit{
		hit("a", "1234567890", 0.9),
		hit("b", "1234567890", 0.8),
		hit("c", "1234567890", 0.7),
	}
	// budget fits two lines but not three
	ctxText := BuildContext(hits, 25)
	assert.Equal(t, "1234567890\n1234567890", ctxText)
	assert.LessOrEqual(t, len(ctxText), 25)
}

func TestBuildContextKeepsRankOrder(t *testing.T) {
	hits := []repository.VectorSearchHit{
		hit("a", "first", 0.9),
		hit("b", "second", 0.8),
	}
	assert.Equal(t, "first\nsecond", BuildContext(hits, 4000))
}

func TestBuildContextEmpty(t *testing.T) {
	assert.Equal(t, "(no context found)", BuildContext(nil, 4000))
	// a single oversized line also yields the placeholder
	assert.Equal(t, "(no context found)", BuildContext([]repository.VectorSearchHit{hit("a", "long line here", 0.9)}, 5))
}

func TestBuildContextFallsBackToRawMetadata(t *testing.T) {
	h := repository.VectorSearchHit{ID: "a", MetadataJSON: `{"table":"t"}`}
	assert.Equal(t, `{"table":"t"}`, BuildContext([]repository.VectorSearchHit{h}, 4000))
}

func TestWrapBareNumber(t *testing.T) {
	assert.Equal(t, "The total is 42.", WrapBareNumber("42"))
	assert.Equal(t, "The total is 12.5.", WrapBareNumber("12.5"))
	assert.Equal(t, "The total is -3.", WrapBareNumber("-3"))
	assert.Equal(t, "Revenue was 42 dollars.", WrapBareNumber("Revenue was 42 dollars."))
	assert.Equal(t, "", WrapBareNumber(""))
}

func TestAnswerPipelineRoundTrip(t *testing.T) {
	vs := &fakeVectorStore{searchHits: []repository.VectorSearchHit{
		hit("t:0", "table=t; product=latte; qty=3", 0.92),
		hit("t:1", "table=t; product=mocha; qty=1", 0.85),
	}}
	cm := &fakeChatModel{reply: "3"}

	p, err := NewAnswerPipeline(vs, &fakeEmbedder{dim: 4}, cm, "gpt-4o-mini", 6, 4000)
	require.NoError(t, err)

	res, err := p.Answer(context.Background(), "how many lattes were sold?", "demo__sales")
	require.NoError(t, err)

	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, "gpt-4o-mini", res.Model)
	assert.Equal(t, 6, res.TopK)
	assert.Equal(t, "demo__sales", res.Table)
	assert.Equal(t, "The total is 3.", res.Answer)
	assert.Len(t, res.Matches, 2)
	assert.Equal(t, "t:0", res.Matches[0].ID)

	require.Len(t, vs.searchExprs, 1)
	assert.Equal(t, `table_name == "demo__sales"`, vs.searchExprs[0])
	assert.Equal(t, 6, vs.searchTopKs[0])

	require.Len(t, cm.prompts, 1)
	assert.Contains(t, cm.prompts[0], "product=latte")
	assert.Contains(t, cm.prompts[0], "how many lattes were sold?")
}

func TestAnswerPipelineNoTableFilter(t *testing.T) {
	vs := &fakeVectorStore{}
	p, err := NewAnswerPipeline(vs, &fakeEmbedder{dim: 4}, &fakeChatModel{reply: "nothing found"}, "m", 6, 4000)
	require.NoError(t, err)

	res, err := p.Answer(context.Background(), "anything?", "")
	require.NoError(t, err)
	assert.Equal(t, "", vs.searchExprs[0])
	assert.Empty(t, res.Table)
	assert.Empty(t, res.Matches)
}

func TestAnswerPipelineMatchPreviewCap(t *testing.T) {
	var hits []repository.VectorSearchHit
	for i := 0; i < 6; i++ {
		hits = append(hits, hit(fmt.Sprintf("t:%d", i), fmt.Sprintf("row %d", i), 0.9))
	}
	vs := &fakeVectorStore{searchHits: hits}
	p, err := NewAnswerPipeline(vs, &fakeEmbedder{dim: 4}, &fakeChatModel{reply: "ok"}, "m", 6, 4000)
	require.NoError(t, err)

	res, err := p.Answer(context.Background(), "q", "")
	require.NoError(t, err)
	assert.Len(t, res.Matches, 3)
}

func TestNewAnswerPipelineDefaults(t *testing.T) {
	p, err := NewAnswerPipeline(&fakeVectorStore{}, &fakeEmbedder{dim: 4}, &fakeChatModel{}, "m", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, p.topK)
	assert.Equal(t, 4000, p.maxContextChars)
}
