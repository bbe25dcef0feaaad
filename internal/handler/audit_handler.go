package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modplan/modplan-api/internal/models"
	"github.com/modplan/modplan-api/pkg/response"
)

type auditReader interface {
	Recent(ctx context.Context, limit int) ([]models.AuditEvent, error)
}

// AuditHandler exposes the engine audit trail for operators.
type AuditHandler struct {
	events auditReader
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(events auditReader) *AuditHandler {
	return &AuditHandler{events: events}
}

// Recent godoc
// @Summary List recent engine audit events
// @Tags Audit
// @Produce json
// @Param limit query int false "Maximum number of events (default 100, max 500)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /audit/events [get]
func (h *AuditHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	events, err := h.events.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}
