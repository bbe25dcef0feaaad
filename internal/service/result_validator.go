package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/modplan/modplan-api/internal/dto"
	"github.com/modplan/modplan-api/internal/models"
)

// auditSink receives validation failures and output anomalies for offline
// investigation. Implementations must never fail the caller.
type auditSink interface {
	Record(ctx context.Context, severity models.AuditSeverity, header, detail string, fields map[string]any)
}

// ResultValidator re-verifies the engine's own output against the same
// invariants the engine enforces. It is an auditing step, not a blocking
// gate: anomalies are recorded and logged, never surfaced to the caller.
type ResultValidator struct {
	audit  auditSink
	logger *zap.Logger
}

// NewResultValidator wires the audit sink and logger.
func NewResultValidator(audit auditSink, logger *zap.Logger) *ResultValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultValidator{audit: audit, logger: logger}
}

// Audit inspects the final combination set. A pairwise clash or a filter
// violation in returned output implies an engine bug and is recorded as an
// error; an unplaceable module or an empty result is only worth a log
// warning, since infeasible input is a valid outcome.
func (v *ResultValidator) Audit(ctx context.Context, req dto.GenerateTimetableRequest, combinations []models.Combination) {
	if len(combinations) == 0 {
		v.logger.Warn("timetable generation produced no combinations",
			zap.String("semester", req.Semester),
			zap.Int("modules", len(req.Modules)),
		)
		return
	}

	assigned := make(map[string]bool)
	for i, combination := range combinations {
		v.auditClashes(ctx, req, i, combination)
		if !passesFilters(combination, req.Filters) {
			v.record(ctx, req, "timetable.filter_violation",
				fmt.Sprintf("combination %d violates an enabled filter", i),
				map[string]any{"combinationIndex": i, "assignments": combination.Assignments})
		}
		for code := range combination.Assignments {
			assigned[code] = true
		}
	}

	for _, module := range req.Modules {
		code := strings.ToUpper(module.Code)
		if !assigned[code] {
			v.logger.Warn("requested module absent from every combination",
				zap.String("module", code),
				zap.String("semester", req.Semester),
			)
		}
	}
}

func (v *ResultValidator) auditClashes(ctx context.Context, req dto.GenerateTimetableRequest, index int, combination models.Combination) {
	sessions := combination.Sessions
	for i := 0; i < len(sessions); i++ {
		for j := i + 1; j < len(sessions); j++ {
			if !Conflicts(sessions[i], sessions[j]) {
				continue
			}
			v.record(ctx, req, "timetable.clash_in_output",
				fmt.Sprintf("combination %d contains clashing sessions %s and %s", index, sessions[i].GroupID, sessions[j].GroupID),
				map[string]any{
					"combinationIndex": index,
					"first":            sessions[i],
					"second":           sessions[j],
				})
		}
	}
}

func (v *ResultValidator) record(ctx context.Context, req dto.GenerateTimetableRequest, header, detail string, extra map[string]any) {
	v.logger.Error(header,
		zap.String("detail", detail),
		zap.String("semester", req.Semester),
	)
	if v.audit == nil {
		return
	}
	payload := map[string]any{"semester": req.Semester, "modules": req.Modules}
	for key, value := range extra {
		payload[key] = value
	}
	v.audit.Record(ctx, models.AuditSeverityError, header, detail, payload)
}
