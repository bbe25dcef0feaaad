package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modplan/modplan-api/internal/dto"
	"github.com/modplan/modplan-api/internal/service"
	appErrors "github.com/modplan/modplan-api/pkg/errors"
	"github.com/modplan/modplan-api/pkg/response"
)

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
}

type timetableExporter interface {
	Render(ctx context.Context, req dto.ExportTimetableRequest) (*service.ExportResult, error)
}

// TimetableHandler exposes the combination engine endpoints.
type TimetableHandler struct {
	generator timetableGenerator
	exporter  timetableExporter
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(generator timetableGenerator, exporter timetableExporter) *TimetableHandler {
	return &TimetableHandler{generator: generator, exporter: exporter}
}

// Generate godoc
// @Summary Generate clash-free timetable combinations
// @Description Enumerates every clash-free assignment of one index per module, filtered by preferences and ranked by score.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		var invalid *service.ValidationError
		if errors.As(err, &invalid) {
			response.JSON(c, http.StatusBadRequest, dto.ValidationResult{Valid: false, Errors: invalid.Problems}, nil)
			return
		}
		response.Error(c, err)
		return
	}

	var meta map[string]interface{}
	if result.WorkBudgetExhausted {
		meta = map[string]interface{}{"workBudgetExhausted": true}
	}
	response.JSON(c, http.StatusOK, result, nil, meta)
}

// Export godoc
// @Summary Export one combination as CSV or PDF
// @Tags Timetables
// @Accept json
// @Produce octet-stream
// @Param payload body dto.ExportTimetableRequest true "Export payload"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /timetables/export [post]
func (h *TimetableHandler) Export(c *gin.Context) {
	var req dto.ExportTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	result, err := h.exporter.Render(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
