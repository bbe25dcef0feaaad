package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modplan/modplan-api/internal/dto"
	"github.com/modplan/modplan-api/internal/service"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeGenerator struct {
	resp    *dto.GenerateTimetableResponse
	err     error
	lastReq dto.GenerateTimetableRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

type fakeExporter struct {
	result *service.ExportResult
	err    error
}

func (f *fakeExporter) Render(context.Context, dto.ExportTimetableRequest) (*service.ExportResult, error) {
	return f.result, f.err
}

func postJSON(t *testing.T, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/timetables/generate", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	return rec, c
}

func generatePayload() map[string]interface{} {
	return map[string]interface{}{
		"modules": []map[string]interface{}{
			{"code": "CS1010", "indexNumbers": []string{"10101"}},
		},
		"filters":  map[string]interface{}{},
		"semester": "2026S1",
	}
}

func TestTimetableHandlerGenerateSuccess(t *testing.T) {
	generator := &fakeGenerator{resp: &dto.GenerateTimetableResponse{
		TotalCombinations: 4,
		ReturnedCount:     4,
		GeneratedAt:       time.Now().UTC(),
	}}
	handler := NewTimetableHandler(generator, &fakeExporter{})

	rec, c := postJSON(t, generatePayload())
	handler.Generate(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CS1010", generator.lastReq.Modules[0].Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, float64(4), envelope.Data["totalCombinations"])
	assert.Empty(t, envelope.Meta)
}

func TestTimetableHandlerGenerateWorkBudgetMeta(t *testing.T) {
	generator := &fakeGenerator{resp: &dto.GenerateTimetableResponse{WorkBudgetExhausted: true}}
	handler := NewTimetableHandler(generator, &fakeExporter{})

	rec, c := postJSON(t, generatePayload())
	handler.Generate(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["workBudgetExhausted"])
	assert.NotContains(t, rec.Body.String(), "WorkBudgetExhausted", "budget flag travels in meta, not the body")
}

func TestTimetableHandlerGenerateValidationFailure(t *testing.T) {
	generator := &fakeGenerator{err: &service.ValidationError{Problems: []string{"semester is required"}}}
	handler := NewTimetableHandler(generator, &fakeExporter{})

	rec, c := postJSON(t, generatePayload())
	handler.Generate(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope.Data["valid"])

	errors, ok := envelope.Data["errors"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, errors, "semester is required")
}

func TestTimetableHandlerGenerateMalformedBody(t *testing.T) {
	handler := NewTimetableHandler(&fakeGenerator{}, &fakeExporter{})

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/timetables/generate", bytes.NewReader([]byte("{not json")))

	handler.Generate(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimetableHandlerExport(t *testing.T) {
	handler := NewTimetableHandler(&fakeGenerator{}, &fakeExporter{result: &service.ExportResult{
		Filename:    "timetable-20260829.csv",
		ContentType: "text/csv",
		Payload:     []byte("Module,Index\n"),
	}})

	rec, c := postJSON(t, map[string]interface{}{
		"combination": map[string]interface{}{},
		"format":      "csv",
	})
	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "timetable-20260829.csv")
	assert.Equal(t, "Module,Index\n", rec.Body.String())
}

func TestTimetableHandlerExportError(t *testing.T) {
	handler := NewTimetableHandler(&fakeGenerator{}, &fakeExporter{err: assertableError{}})

	rec, c := postJSON(t, map[string]interface{}{"format": "csv"})
	handler.Export(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type assertableError struct{}

func (assertableError) Error() string { return "render failed" }
