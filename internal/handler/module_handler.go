package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modplan/modplan-api/internal/dto"
	"github.com/modplan/modplan-api/internal/models"
	appErrors "github.com/modplan/modplan-api/pkg/errors"
	"github.com/modplan/modplan-api/pkg/response"
)

type moduleCatalogue interface {
	List(ctx context.Context, query dto.ModuleListQuery) ([]models.Module, *models.Pagination, error)
	Get(ctx context.Context, code, semester string) (*models.ModuleDetail, error)
}

// ModuleHandler exposes the read-only module catalogue.
type ModuleHandler struct {
	catalogue moduleCatalogue
}

// NewModuleHandler constructs the handler.
func NewModuleHandler(catalogue moduleCatalogue) *ModuleHandler {
	return &ModuleHandler{catalogue: catalogue}
}

// List godoc
// @Summary List catalogue modules
// @Tags Modules
// @Produce json
// @Param search query string false "Search by code or title"
// @Param faculty query string false "Faculty filter"
// @Param semester query string false "Restrict to modules offered in a semester"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /modules [get]
func (h *ModuleHandler) List(c *gin.Context) {
	var query dto.ModuleListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid catalogue query"))
		return
	}

	modules, pagination, err := h.catalogue.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, pagination)
}

// Get godoc
// @Summary Fetch one module with its class groups
// @Tags Modules
// @Produce json
// @Param code path string true "Module code"
// @Param semester query string true "Semester the groups belong to"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /modules/{code} [get]
func (h *ModuleHandler) Get(c *gin.Context) {
	detail, err := h.catalogue.Get(c.Request.Context(), c.Param("code"), c.Query("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}
