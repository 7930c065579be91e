package http

import (
	"context"

	"Caffinate/internal/config"
	"Caffinate/internal/initial"
	"Caffinate/internal/middleware/apikey"
	"Caffinate/internal/modules/dataset/application/service"
	"Caffinate/internal/modules/dataset/domain/repository"
	embedProvider "Caffinate/internal/modules/dataset/infrastructure/embedding"
	"Caffinate/internal/modules/dataset/infrastructure/llm"
	"Caffinate/internal/modules/dataset/infrastructure/persistence"
	"Caffinate/internal/modules/dataset/infrastructure/pipeline"
	"Caffinate/internal/modules/dataset/infrastructure/vectordb"
	datasetHandler "Caffinate/internal/modules/dataset/interface/http"
	"Caffinate/pkg/ssl"
	"Caffinate/pkg/zlog"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var GE *gin.Engine

func init() {
	conf := config.GetConfig()

	GE = gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = conf.MainConfig.CorsAllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-API-Key"}
	// credentialed CORS is invalid with a wildcard origin
	corsConfig.AllowCredentials = len(conf.MainConfig.CorsAllowOrigins) > 0 &&
		conf.MainConfig.CorsAllowOrigins[0] != "*"
	GE.Use(cors.New(corsConfig))
	if conf.MainConfig.EnableTLS {
		GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	}

	tenantID := conf.MainConfig.TenantID

	tableRepo := persistence.NewTableRepository(initial.GormDB)
	analyticsRepo := persistence.NewAnalyticsRepository(initial.GormDB, tableRepo)
	datasetRepo := persistence.NewDatasetRepository(initial.GormDB)

	ingestSvc := service.NewIngestService(tableRepo, datasetRepo, tenantID)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, tenantID)

	indexPipe, answerPipe := buildRagPipelines(conf, tableRepo)
	indexSvc := service.NewIndexService(indexPipe, tenantID)
	answerSvc := service.NewAnswerService(conf, answerPipe, tenantID)

	datasetH := datasetHandler.NewDatasetHandler(ingestSvc, analyticsSvc, initial.GormDB)
	ragH := datasetHandler.NewRagHandler(indexSvc, answerSvc)

	GE.GET("/health", datasetH.Health)
	GE.POST("/ask", ragH.Ask)
	GE.GET("/metrics/overview", datasetH.Overview)
	GE.GET("/metrics/kpis", datasetH.Kpis)
	GE.GET("/metrics/daily", datasetH.Daily)
	GE.GET("/metrics/top_products", datasetH.TopProducts)
	GE.GET("/datasets", datasetH.ListDatasets)

	admin := GE.Group("/")
	admin.Use(apikey.Auth())
	admin.POST("/ingest_dataset", datasetH.Ingest)
	admin.POST("/rag/index", ragH.Index)
}

// buildRagPipelines assembles the vector store, embedder and chat model.
// Each piece degrades independently: no vector store means no pipelines,
// and a missing chat model still leaves indexing available.
func buildRagPipelines(conf *config.Config, tables repository.TableRepository) (*pipeline.IndexPipeline, *pipeline.AnswerPipeline) {
	if initial.MilvusClient == nil || conf.MilvusConfig.CollectionName == "" {
		zlog.Warn("vector store not configured, retrieval routes run in degraded mode")
		return nil, nil
	}

	ctx := context.Background()

	store, err := vectordb.NewMilvusStore(initial.MilvusClient, conf.MilvusConfig.CollectionName, conf.MilvusConfig.VectorDim)
	if err != nil {
		zlog.Error("milvus store init failed", zap.Error(err))
		return nil, nil
	}

	embedder, embedMeta, err := embedProvider.NewEmbedderFromConfig(ctx, conf)
	if err != nil {
		zlog.Error("embedder init failed", zap.Error(err))
		return nil, nil
	}
	zlog.Info("embedder ready",
		zap.String("provider", embedMeta.Provider),
		zap.String("model", embedMeta.Model),
		zap.Int("dim", embedMeta.Dim))

	indexPipe, err := pipeline.NewIndexPipeline(tables, store, embedder, embedMeta.Dim)
	if err != nil {
		zlog.Error("index pipeline init failed", zap.Error(err))
		return nil, nil
	}

	cm, cmMeta, err := llm.NewChatModelFromConfig(ctx, conf)
	if err != nil {
		zlog.Warn("chat model unavailable, /ask will report todo", zap.Error(err))
		return indexPipe, nil
	}

	answerPipe, err := pipeline.NewAnswerPipeline(store, embedder, cm, cmMeta.Model,
		conf.RagConfig.TopK, conf.RagConfig.MaxContextChars)
	if err != nil {
		zlog.Error("answer pipeline init failed", zap.Error(err))
		return indexPipe, nil
	}
	return indexPipe, answerPipe
}
