package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/modplan/modplan-api/internal/dto"
	"github.com/modplan/modplan-api/internal/models"
	appErrors "github.com/modplan/modplan-api/pkg/errors"
)

func exportableCombination() models.Combination {
	lecture := session("WED", "0900", "1100")
	lecture.GroupID = "10101"
	lecture.Venue = "LT19"

	tutorial := session("MON", "1330", "1430", 2, 4, 6)
	tutorial.GroupID = "10101"
	tutorial.Type = models.ClassTypeTutorial
	tutorial.Venue = "TR+15"

	mathLecture := session("MON", "0830", "1030")
	mathLecture.GroupID = "20101"
	mathLecture.Venue = "Online"

	return models.Combination{
		Assignments: map[string]string{"CS1010": "10101", "MA1101": "20101"},
		Sessions:    []models.ClassSession{lecture, tutorial, mathLecture},
	}
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc := NewExportService(nil, zap.NewNop())

	result, err := svc.Render(context.Background(), dto.ExportTimetableRequest{
		Combination: exportableCombination(),
		Format:      "csv",
		Semester:    "2026S1",
	})
	require.NoError(t, err)

	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(result.Payload)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Module,Index,Type,Day,Start,End,Venue,Weeks", strings.TrimSpace(lines[0]))

	// Rows come out day-ordered, then by start time.
	assert.Contains(t, lines[1], "MA1101")
	assert.Contains(t, lines[1], "MON")
	assert.Contains(t, lines[2], "TUT")
	assert.Contains(t, lines[2], "2,4,6")
	assert.Contains(t, lines[3], "WED")
	assert.Contains(t, lines[3], "all")
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc := NewExportService(nil, zap.NewNop())

	result, err := svc.Render(context.Background(), dto.ExportTimetableRequest{
		Combination: exportableCombination(),
		Format:      "pdf",
		Semester:    "2026S1",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(result.Payload), "%PDF"), "payload should be a PDF document")
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(nil, zap.NewNop())

	_, err := svc.Render(context.Background(), dto.ExportTimetableRequest{
		Combination: exportableCombination(),
		Format:      "xlsx",
	})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportServiceRejectsEmptyCombination(t *testing.T) {
	svc := NewExportService(nil, zap.NewNop())

	_, err := svc.Render(context.Background(), dto.ExportTimetableRequest{
		Combination: models.Combination{Assignments: map[string]string{"CS1010": "10101"}},
		Format:      "csv",
	})
	require.Error(t, err)
}
