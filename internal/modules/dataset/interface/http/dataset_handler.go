package http

import (
	"strconv"
	"strings"

	"Caffinate/internal/modules/dataset/application/service"
	"Caffinate/pkg/back"
	"Caffinate/pkg/xerr"
	"Caffinate/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DatasetHandler serves dataset ingestion and the SQL-backed metrics routes.
type DatasetHandler struct {
	ingestSvc    service.IngestService
	analyticsSvc service.AnalyticsService
	db           *gorm.DB
}

func NewDatasetHandler(ingestSvc service.IngestService, analyticsSvc service.AnalyticsService, db *gorm.DB) *DatasetHandler {
	return &DatasetHandler{ingestSvc: ingestSvc, analyticsSvc: analyticsSvc, db: db}
}

// Health reports liveness plus database reachability.
//
// Route: GET /health
func (h *DatasetHandler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.WithContext(c.Request.Context()).Exec("SELECT 1").Error; err != nil {
			zlog.Error("health check failed", zap.Error(err))
			c.JSON(200, gin.H{"status": "error", "detail": err.Error()})
			return
		}
	}
	c.JSON(200, gin.H{"status": "ok"})
}

// Ingest replaces a tenant table with the rows of an uploaded CSV file.
//
// Route: POST /ingest_dataset?table=<name>  (multipart field "file")
func (h *DatasetHandler) Ingest(c *gin.Context) {
	table := strings.TrimSpace(c.Query("table"))
	if table == "" {
		back.Error(c, xerr.BadRequest, "table query parameter is required")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		back.Error(c, xerr.BadRequest, "file upload is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		zlog.Error("open uploaded file failed", zap.Error(err))
		back.Error(c, xerr.BadRequest, "uploaded file could not be read")
		return
	}
	defer file.Close()

	data, err := h.ingestSvc.IngestDataset(c.Request.Context(), table, file)
	if err != nil {
		zlog.Warn("ingest failed", zap.String("table", table), zap.Error(err))
	} else {
		zlog.Info("dataset ingested",
			zap.String("table", table),
			zap.Int("rows", data.Rows),
			zap.Int("columns", len(data.Columns)))
	}
	back.Result(c, data, err)
}

// Overview is the cheap existence and shape probe for one table.
//
// Route: GET /metrics/overview?table=<name>
func (h *DatasetHandler) Overview(c *gin.Context) {
	table := strings.TrimSpace(c.Query("table"))
	if table == "" {
		back.Error(c, xerr.BadRequest, "table query parameter is required")
		return
	}
	data, err := h.analyticsSvc.Overview(c.Request.Context(), table)
	back.Result(c, data, err)
}

// Kpis returns row count and role-derived totals for one table.
//
// Route: GET /metrics/kpis?table=<name>
func (h *DatasetHandler) Kpis(c *gin.Context) {
	table := strings.TrimSpace(c.Query("table"))
	if table == "" {
		back.Error(c, xerr.BadRequest, "table query parameter is required")
		return
	}
	data, err := h.analyticsSvc.Kpis(c.Request.Context(), table)
	back.Result(c, data, err)
}

// Daily returns the per-day revenue or count series for one table.
//
// Route: GET /metrics/daily?table=<name>
func (h *DatasetHandler) Daily(c *gin.Context) {
	table := strings.TrimSpace(c.Query("table"))
	if table == "" {
		back.Error(c, xerr.BadRequest, "table query parameter is required")
		return
	}
	data, err := h.analyticsSvc.DailySeries(c.Request.Context(), table)
	back.Result(c, data, err)
}

// TopProducts ranks products by summed quantity, or by row count when no
// quantity column exists.
//
// Route: GET /metrics/top_products?table=<name>&limit=<1..50>
func (h *DatasetHandler) TopProducts(c *gin.Context) {
	table := strings.TrimSpace(c.Query("table"))
	if table == "" {
		back.Error(c, xerr.BadRequest, "table query parameter is required")
		return
	}
	limitRaw := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitRaw)
	if err != nil || limit < 1 || limit > 50 {
		back.Error(c, xerr.BadRequest, "limit must be between 1 and 50")
		return
	}
	data, err := h.analyticsSvc.TopProducts(c.Request.Context(), table, limit)
	back.Result(c, data, err)
}

// ListDatasets lists the tenant's registered datasets, newest first.
//
// Route: GET /datasets
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	data, err := h.ingestSvc.ListDatasets(c.Request.Context())
	back.Result(c, data, err)
}
