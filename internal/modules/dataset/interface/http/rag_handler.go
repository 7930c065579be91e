package http

import (
	"strconv"
	"strings"

	"Caffinate/internal/modules/dataset/application/dto/request"
	"Caffinate/internal/modules/dataset/application/service"
	"Caffinate/pkg/back"
	"Caffinate/pkg/xerr"
	"Caffinate/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RagHandler serves row indexing and retrieval-augmented question answering.
type RagHandler struct {
	indexSvc  service.IndexService
	answerSvc service.AnswerService
}

func NewRagHandler(indexSvc service.IndexService, answerSvc service.AnswerService) *RagHandler {
	return &RagHandler{indexSvc: indexSvc, answerSvc: answerSvc}
}

// Index serializes table rows, embeds them and upserts into the vector store.
//
// Route: POST /rag/index?table=<name>&limit=<n>
func (h *RagHandler) Index(c *gin.Context) {
	table := strings.TrimSpace(c.Query("table"))
	if table == "" {
		back.Error(c, xerr.BadRequest, "table query parameter is required")
		return
	}
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			back.Error(c, xerr.BadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	data, err := h.indexSvc.IndexTable(c.Request.Context(), table, limit)
	if err != nil {
		zlog.Warn("index failed", zap.String("table", table), zap.Error(err))
	}
	back.Result(c, data, err)
}

// Ask answers a question over previously indexed rows. When the retrieval
// stack is not fully configured the response is a "todo" report instead of
// an error.
//
// Route: POST /ask
func (h *RagHandler) Ask(c *gin.Context) {
	var req request.AskRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error("bad ask request", zap.Error(err))
		back.Error(c, xerr.BadRequest, "question is required")
		return
	}
	data, err := h.answerSvc.Ask(c.Request.Context(), req.Question, req.Table)
	back.Result(c, data, err)
}
