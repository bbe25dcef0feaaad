package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/modplan/modplan-api/internal/dto"
	"github.com/modplan/modplan-api/internal/models"
	appErrors "github.com/modplan/modplan-api/pkg/errors"
	"github.com/modplan/modplan-api/pkg/export"
)

var exportHeaders = []string{"Module", "Index", "Type", "Day", "Start", "End", "Venue", "Weeks"}

// ExportResult is a rendered timetable file ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders one generated combination into a downloadable file.
// Nothing is persisted: the combination travels in the request.
type ExportService struct {
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService wires the exporters.
func NewExportService(validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

// Render produces the requested format for one combination.
func (s *ExportService) Render(ctx context.Context, req dto.ExportTimetableRequest) (*ExportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if len(req.Combination.Sessions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "combination has no sessions to export")
	}

	dataset := timetableDataset(req.Combination)
	stamp := time.Now().UTC().Format("20060102")

	switch req.Format {
	case "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("timetable-%s.csv", stamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case "pdf":
		title := "Timetable"
		if req.Semester != "" {
			title = fmt.Sprintf("Timetable %s", req.Semester)
		}
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("timetable-%s.pdf", stamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", req.Format))
	}
}

func timetableDataset(combination models.Combination) export.Dataset {
	moduleByGroup := make(map[string]string, len(combination.Assignments))
	for code, groupID := range combination.Assignments {
		moduleByGroup[groupID] = code
	}

	sessions := make([]models.ClassSession, len(combination.Sessions))
	copy(sessions, combination.Sessions)
	sort.SliceStable(sessions, func(i, j int) bool {
		ranki := dayRanks[canonicalDay(sessions[i].Day)]
		rankj := dayRanks[canonicalDay(sessions[j].Day)]
		if ranki != rankj {
			return ranki < rankj
		}
		return sessionMinutes(sessions[i].StartTime) < sessionMinutes(sessions[j].StartTime)
	})

	rows := make([]map[string]string, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, map[string]string{
			"Module": moduleByGroup[session.GroupID],
			"Index":  session.GroupID,
			"Type":   string(session.Type),
			"Day":    canonicalDay(session.Day),
			"Start":  session.StartTime,
			"End":    session.EndTime,
			"Venue":  session.Venue,
			"Weeks":  formatWeeks(session.Weeks),
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}

func formatWeeks(weeks []int) string {
	if len(weeks) == 0 {
		return "all"
	}
	parts := make([]string, len(weeks))
	for i, week := range weeks {
		parts[i] = strconv.Itoa(week)
	}
	return strings.Join(parts, ",")
}
