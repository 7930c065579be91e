package service

import (
	"context"
	"os"
	"strings"

	"Caffinate/internal/config"
	"Caffinate/internal/modules/dataset/application/dto/respond"
	"Caffinate/internal/modules/dataset/domain/dataset"
	"Caffinate/internal/modules/dataset/infrastructure/pipeline"
	"Caffinate/pkg/xerr"
)

// AnswerService is the entry point of the retrieval subsystem. Availability
// is decided here, once, from configuration: when any required credential is
// absent the call short-circuits to a success-shaped "todo" response and no
// external service is contacted.
type AnswerService interface {
	Ask(ctx context.Context, question, logicalTable string) (any, error)
}

type answerServiceImpl struct {
	conf     *config.Config
	pipeline *pipeline.AnswerPipeline
	tenantID string
}

func NewAnswerService(conf *config.Config, p *pipeline.AnswerPipeline, tenantID string) AnswerService {
	return &answerServiceImpl{conf: conf, pipeline: p, tenantID: tenantID}
}

func (s *answerServiceImpl) Ask(ctx context.Context, question, logicalTable string) (any, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, xerr.Invalid("question is required")
	}

	physical := ""
	if t := strings.TrimSpace(logicalTable); t != "" {
		physical = dataset.PhysicalTable(s.tenantID, t)
	}

	status := CredentialStatus(s.conf)
	if !allPresent(status) || s.pipeline == nil {
		return &respond.AskTodoRespond{
			Status:  "todo",
			Message: "RAG not configured yet",
			Missing: status,
			Echo:    respond.AskEcho{Question: question, Table: logicalTable},
		}, nil
	}

	result, err := s.pipeline.Answer(ctx, question, physical)
	if err != nil {
		return nil, xerr.Upstream(err)
	}
	return result, nil
}

// CredentialStatus flags each credential retrieval depends on: the model
// API key (embedding + chat), the vector store address and the collection
// name. true means present.
func CredentialStatus(conf *config.Config) map[string]bool {
	return map[string]bool{
		"ai_api_key":        embeddingCredentialPresent(conf) && chatCredentialPresent(conf),
		"milvus_address":    strings.TrimSpace(conf.MilvusConfig.Address) != "",
		"milvus_collection": strings.TrimSpace(conf.MilvusConfig.CollectionName) != "",
	}
}

func allPresent(status map[string]bool) bool {
	for _, ok := range status {
		if !ok {
			return false
		}
	}
	return true
}

func embeddingCredentialPresent(conf *config.Config) bool {
	provider := strings.ToLower(strings.TrimSpace(conf.AIConfig.Embedding.Provider))
	switch provider {
	case "", "mock":
		// the mock embedder needs no key
		return true
	case "openai":
		return firstNonEmpty(conf.AIConfig.Embedding.APIKey, os.Getenv("OPENAI_API_KEY")) != ""
	case "ark":
		return firstNonEmpty(conf.AIConfig.Embedding.APIKey, os.Getenv("ARK_API_KEY")) != ""
	case "dashscope":
		return firstNonEmpty(conf.AIConfig.Embedding.APIKey, os.Getenv("DASHSCOPE_API_KEY")) != ""
	default:
		return false
	}
}

func chatCredentialPresent(conf *config.Config) bool {
	provider := strings.ToLower(strings.TrimSpace(conf.AIConfig.ChatModel.Provider))
	switch provider {
	case "openai":
		return firstNonEmpty(conf.AIConfig.ChatModel.APIKey, os.Getenv("OPENAI_API_KEY")) != ""
	case "ark":
		if firstNonEmpty(conf.AIConfig.ChatModel.APIKey, os.Getenv("ARK_API_KEY")) != "" {
			return true
		}
		return conf.AIConfig.ChatModel.AccessKey != "" && conf.AIConfig.ChatModel.SecretKey != ""
	default:
		return false
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
