package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modplan/modplan-api/internal/dto"
	"github.com/modplan/modplan-api/internal/models"
	appErrors "github.com/modplan/modplan-api/pkg/errors"
)

type fakeCatalogue struct {
	modules      []models.Module
	pagination   *models.Pagination
	detail       *models.ModuleDetail
	listErr      error
	getErr       error
	lastQuery    dto.ModuleListQuery
	lastCode     string
	lastSemester string
}

func (f *fakeCatalogue) List(_ context.Context, query dto.ModuleListQuery) ([]models.Module, *models.Pagination, error) {
	f.lastQuery = query
	return f.modules, f.pagination, f.listErr
}

func (f *fakeCatalogue) Get(_ context.Context, code, semester string) (*models.ModuleDetail, error) {
	f.lastCode = code
	f.lastSemester = semester
	return f.detail, f.getErr
}

func getRequest(t *testing.T, target string, params gin.Params) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Params = params
	return rec, c
}

func TestModuleHandlerList(t *testing.T) {
	catalogue := &fakeCatalogue{
		modules:    []models.Module{{Code: "CS1010", Title: "Programming Methodology"}},
		pagination: &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1},
	}
	handler := NewModuleHandler(catalogue)

	rec, c := getRequest(t, "/modules?search=prog&semester=2026S1&page=1", nil)
	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "prog", catalogue.lastQuery.Search)
	assert.Equal(t, "2026S1", catalogue.lastQuery.Semester)

	var envelope struct {
		Data       []map[string]interface{} `json:"data"`
		Pagination map[string]interface{}   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "CS1010", envelope.Data[0]["code"])
	assert.Equal(t, float64(1), envelope.Pagination["total_count"])
}

func TestModuleHandlerListError(t *testing.T) {
	handler := NewModuleHandler(&fakeCatalogue{listErr: appErrors.ErrInternal})

	rec, c := getRequest(t, "/modules", nil)
	handler.List(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestModuleHandlerGet(t *testing.T) {
	catalogue := &fakeCatalogue{detail: &models.ModuleDetail{
		Module:   models.Module{Code: "CS1010"},
		Semester: "2026S1",
	}}
	handler := NewModuleHandler(catalogue)

	rec, c := getRequest(t, "/modules/CS1010?semester=2026S1", gin.Params{{Key: "code", Value: "CS1010"}})
	handler.Get(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CS1010", catalogue.lastCode)
	assert.Equal(t, "2026S1", catalogue.lastSemester)
}

func TestModuleHandlerGetNotFound(t *testing.T) {
	handler := NewModuleHandler(&fakeCatalogue{getErr: appErrors.ErrNotFound})

	rec, c := getRequest(t, "/modules/ZZ9999?semester=2026S1", gin.Params{{Key: "code", Value: "ZZ9999"}})
	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
