package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"Caffinate/internal/modules/dataset/domain/repository"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	noContextPlaceholder = "(no context found)"
	answerTemperature    = 0.2
	maxPreviewMatches    = 3
)

var bareNumberRe = regexp.MustCompile(`^[-+]?\d+(\.\d+)?$`)

type MatchPreview struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

type AnswerResult struct {
	Status           string         `json:"status"`
	Model            string         `json:"model"`
	TopK             int            `json:"top_k"`
	Table            string         `json:"table,omitempty"`
	Answer           string         `json:"answer"`
	UsedContextChars int            `json:"used_context_chars"`
	Matches          []MatchPreview `json:"matches"`
}

// AnswerPipeline embeds a question, retrieves the nearest rows, assembles a
// bounded context and asks the chat model for one short sentence.
type AnswerPipeline struct {
	vs              repository.VectorStore
	embedder        embedding.Embedder
	cm              model.BaseChatModel
	modelName       string
	topK            int
	maxContextChars int
}

func NewAnswerPipeline(vs repository.VectorStore, embedder embedding.Embedder, cm model.BaseChatModel, modelName string, topK, maxContextChars int) (*AnswerPipeline, error) {
	if vs == nil {
		return nil, fmt.Errorf("vector store is nil")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is nil")
	}
	if cm == nil {
		return nil, fmt.Errorf("chat model is nil")
	}
	if topK <= 0 {
		topK = 6
	}
	if maxContextChars <= 0 {
		maxContextChars = 4000
	}
	return &AnswerPipeline{
		vs:              vs,
		embedder:        embedder,
		cm:              cm,
		modelName:       modelName,
		topK:            topK,
		maxContextChars: maxContextChars,
	}, nil
}

// Answer runs the full retrieval round trip. physicalTable narrows the
// search to one table when non-empty.
func (p *AnswerPipeline) Answer(ctx context.Context, question, physicalTable string) (*AnswerResult, error) {
	vecs, err := p.embedder.EmbedStrings(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for question")
	}

	expr := ""
	if physicalTable != "" {
		expr = fmt.Sprintf(`table_name == "%s"`, physicalTable)
	}

	hits, err := p.vs.Search(ctx, toFloat32(vecs[0]), p.topK, expr)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	contextText := BuildContext(hits, p.maxContextChars)

	prompt := buildPrompt(contextText, question)
	reply, err := p.cm.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)}, model.WithTemperature(answerTemperature))
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	answer := WrapBareNumber(strings.TrimSpace(reply.Content))

	used := len(contextText)
	if used > p.maxContextChars {
		used = p.maxContextChars
	}

	return &AnswerResult{
		Status:           "ok",
		Model:            p.modelName,
		TopK:             p.topK,
		Table:            physicalTable,
		Answer:           answer,
		UsedContextChars: used,
		Matches:          previewMatches(hits),
	}, nil
}

// BuildContext concatenates match text lines in the store's ranked order,
// stopping before the line that would exceed the character budget. Matches
// past that point are silently dropped.
func BuildContext(hits []repository.VectorSearchHit, maxChars int) string {
	var buf []string
	total := 0
	for _, h := range hits {
		line := matchText(h)
		if line == "" {
			continue
		}
		if total+len(line) > maxChars {
			break
		}
		buf = append(buf, line)
		total += len(line)
	}
	if len(buf) == 0 {
		return noContextPlaceholder
	}
	return strings.Join(buf, "\n")
}

// WrapBareNumber turns a reply that is nothing but a number into a sentence;
// the product contract requires a natural sentence, not a bare figure.
func WrapBareNumber(answer string) string {
	if bareNumberRe.MatchString(answer) {
		return fmt.Sprintf("The total is %s.", answer)
	}
	return answer
}

func buildPrompt(contextText, question string) string {
	return "You are a precise data analyst. Use only the provided context (facts extracted from a business dataset). " +
		"Respond with ONE short, natural sentence. Include units/currency if relevant. " +
		"If the context is insufficient, say so clearly.\n\n" +
		"Context:\n" + contextText + "\n\nQuestion: " + question + "\nAnswer (one short sentence):"
}

func matchText(h repository.VectorSearchHit) string {
	md := decodeMetadata(h.MetadataJSON)
	if md != nil {
		if text, ok := md["text"].(string); ok && text != "" {
			return text
		}
	}
	// fall back to the raw metadata so a match without a text field still
	// contributes something inspectable
	return h.MetadataJSON
}

func previewMatches(hits []repository.VectorSearchHit) []MatchPreview {
	n := len(hits)
	if n > maxPreviewMatches {
		n = maxPreviewMatches
	}
	out := make([]MatchPreview, 0, n)
	for _, h := range hits[:n] {
		out = append(out, MatchPreview{
			ID:       h.ID,
			Score:    h.Score,
			Metadata: decodeMetadata(h.MetadataJSON),
		})
	}
	return out
}

func decodeMetadata(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var md map[string]any
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		return nil
	}
	return md
}
