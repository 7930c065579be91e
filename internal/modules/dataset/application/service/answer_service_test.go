package service

import (
	"context"
	"testing"

	"Caffinate/internal/config"
	"Caffinate/internal/modules/dataset/application/dto/respond"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ragConfig(milvusAddr, collection, embedProvider, embedKey, chatProvider, chatKey string) *config.Config {
	c := &config.Config{}
	c.MilvusConfig.Address = milvusAddr
	c.MilvusConfig.CollectionName = collection
	c.AIConfig.Embedding.Provider = embedProvider
	c.AIConfig.Embedding.APIKey = embedKey
	c.AIConfig.ChatModel.Provider = chatProvider
	c.AIConfig.ChatModel.APIKey = chatKey
	return c
}

func TestCredentialStatusAllPresent(t *testing.T) {
	conf := ragConfig("milvus:19530", "rows", "openai", "sk-x", "openai", "sk-x")
	status := CredentialStatus(conf)
	assert.True(t, status["ai_api_key"])
	assert.True(t, status["milvus_address"])
	assert.True(t, status["milvus_collection"])
}

func TestCredentialStatusMissingPieces(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	conf := ragConfig("", "", "openai", "", "openai", "")
	status := CredentialStatus(conf)
	assert.False(t, status["ai_api_key"])
	assert.False(t, status["milvus_address"])
	assert.False(t, status["milvus_collection"])
}

func TestCredentialStatusMockEmbedderNeedsNoKey(t *testing.T) {
	conf := ragConfig("milvus:19530", "rows", "mock", "", "openai", "sk-x")
	status := CredentialStatus(conf)
	assert.True(t, status["ai_api_key"])
}

func TestCredentialStatusEnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	conf := ragConfig("milvus:19530", "rows", "openai", "", "openai", "")
	status := CredentialStatus(conf)
	assert.True(t, status["ai_api_key"])
}

func TestAskReportsTodoWhenUnconfigured(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	conf := ragConfig("", "", "openai", "", "openai", "")
	svc := NewAnswerService(conf, nil, "demo")

	data, err := svc.Ask(context.Background(), "how much revenue?", "sales")
	require.NoError(t, err)

	todo, ok := data.(*respond.AskTodoRespond)
	require.True(t, ok)
	assert.Equal(t, "todo", todo.Status)
	assert.Equal(t, "RAG not configured yet", todo.Message)
	assert.False(t, todo.Missing["milvus_address"])
	assert.Equal(t, "how much revenue?", todo.Echo.Question)
	assert.Equal(t, "sales", todo.Echo.Table)
}

func TestAskReportsTodoWhenPipelineNil(t *testing.T) {
	// everything configured, but the pipeline never came up
	conf := ragConfig("milvus:19530", "rows", "mock", "", "openai", "sk-x")
	svc := NewAnswerService(conf, nil, "demo")

	data, err := svc.Ask(context.Background(), "q", "")
	require.NoError(t, err)
	todo, ok := data.(*respond.AskTodoRespond)
	require.True(t, ok)
	assert.Equal(t, "todo", todo.Status)
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	svc := NewAnswerService(&config.Config{}, nil, "demo")
	_, err := svc.Ask(context.Background(), "   ", "")
	assert.Error(t, err)
}
