package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/modplan/modplan-api/internal/dto"
	"github.com/modplan/modplan-api/internal/models"
	appErrors "github.com/modplan/modplan-api/pkg/errors"
)

type catalogueResolver interface {
	ListGroups(ctx context.Context, semester, moduleCode string) ([]models.GroupOption, error)
}

// ValidationError carries every accumulated request problem. The transport
// layer renders it as a flat message list with valid=false.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid generation request: %s", strings.Join(e.Problems, "; "))
}

// TimetableConfig governs engine budgets and catalogue caching.
type TimetableConfig struct {
	ResultCap         int
	WorkCap           int
	CatalogueCacheTTL time.Duration
}

// TimetableService runs the combination engine: validate, resolve, enumerate,
// filter, score, audit. Each invocation is pure and synchronous; all mutable
// search state is local to the call, so invocations are safe to run in
// parallel across requests.
type TimetableService struct {
	catalogue catalogueResolver
	cache     *CacheService
	audit     auditSink
	metrics   *MetricsService
	requests  *RequestValidator
	results   *ResultValidator
	logger    *zap.Logger
	cfg       TimetableConfig
}

// NewTimetableService wires the engine collaborators.
func NewTimetableService(
	catalogue catalogueResolver,
	cache *CacheService,
	audit auditSink,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg TimetableConfig,
) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultCap <= 0 {
		cfg.ResultCap = DefaultResultCap
	}
	if cfg.WorkCap <= 0 {
		cfg.WorkCap = DefaultWorkCap
	}
	if cfg.CatalogueCacheTTL <= 0 {
		cfg.CatalogueCacheTTL = 15 * time.Minute
	}
	return &TimetableService{
		catalogue: catalogue,
		cache:     cache,
		audit:     audit,
		metrics:   metrics,
		requests:  NewRequestValidator(),
		results:   NewResultValidator(audit, logger),
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate produces every clash-free combination for the requested modules,
// filtered by the user's preferences and ranked by score.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	started := time.Now()

	if problems := s.requests.Validate(req); len(problems) > 0 {
		s.recordValidationFailure(ctx, req, problems)
		return nil, &ValidationError{Problems: problems}
	}

	if len(req.Modules) == 0 {
		// Unreachable through the public path: the validator rejects empty
		// module lists. Kept so internal callers never start a vacuous search.
		s.logger.Warn("generation requested with no modules", zap.String("semester", req.Semester))
		return &dto.GenerateTimetableResponse{
			Combinations: []models.Combination{},
			GeneratedAt:  time.Now().UTC(),
		}, nil
	}

	modules, err := s.resolveModules(ctx, req)
	if err != nil {
		return nil, err
	}

	outcome := newEnumerator(modules, s.cfg.ResultCap, s.cfg.WorkCap).run()
	if outcome.workCapHit {
		s.logger.Warn("combination search stopped at work budget",
			zap.String("semester", req.Semester),
			zap.Int("visits", outcome.visits),
			zap.Int("found", len(outcome.combinations)),
		)
	}

	survivors := make([]models.Combination, 0, len(outcome.combinations))
	for _, combination := range outcome.combinations {
		if !passesFilters(combination, req.Filters) {
			continue
		}
		combination.Stats = computeStats(combination, req.Filters)
		combination.Score = scoreCombination(combination, req.Filters)
		survivors = append(survivors, combination)
	}
	rankCombinations(survivors)

	resp := &dto.GenerateTimetableResponse{
		Combinations:      survivors,
		TotalCombinations: len(outcome.combinations),
		ReturnedCount:     len(survivors),
		HasMore:           outcome.hasMore,
		GeneratedAt:       time.Now().UTC(),
	}
	resp.WorkBudgetExhausted = outcome.workCapHit

	s.results.Audit(ctx, req, survivors)

	if s.metrics != nil {
		s.metrics.ObserveGeneration(time.Since(started), len(survivors), outcome.workCapHit)
	}
	return resp, nil
}

// resolveModules turns each requested module into its eligible group options,
// preserving both module order and index-number order from the request.
// Unknown index numbers and modules with zero eligible groups stay in the
// search as-is: they make the result vacuous, never an error.
func (s *TimetableService) resolveModules(ctx context.Context, req dto.GenerateTimetableRequest) ([]models.ResolvedModule, error) {
	modules := make([]models.ResolvedModule, 0, len(req.Modules))
	for _, selection := range req.Modules {
		code := strings.ToUpper(selection.Code)
		groups, err := s.listGroups(ctx, req.Semester, code)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to resolve module %s", code))
		}

		byIndex := make(map[string]models.GroupOption, len(groups))
		for _, group := range groups {
			byIndex[group.GroupID] = group
		}

		eligible := make([]models.GroupOption, 0, len(selection.IndexNumbers))
		for _, index := range selection.IndexNumbers {
			group, ok := byIndex[index]
			if !ok {
				s.logger.Debug("requested index not in catalogue",
					zap.String("module", code),
					zap.String("index", index),
					zap.String("semester", req.Semester),
				)
				continue
			}
			eligible = append(eligible, group)
		}
		modules = append(modules, models.ResolvedModule{Code: code, Groups: eligible})
	}
	return modules, nil
}

func (s *TimetableService) listGroups(ctx context.Context, semester, code string) ([]models.GroupOption, error) {
	key := fmt.Sprintf("catalogue:groups:%s:%s", semester, code)
	if s.cache.Enabled() {
		var cached []models.GroupOption
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}
	groups, err := s.catalogue.ListGroups(ctx, semester, code)
	if err != nil {
		return nil, err
	}
	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, key, groups, s.cfg.CatalogueCacheTTL)
	}
	return groups, nil
}

func (s *TimetableService) recordValidationFailure(ctx context.Context, req dto.GenerateTimetableRequest, problems []string) {
	s.logger.Info("generation request rejected",
		zap.String("semester", req.Semester),
		zap.Int("problems", len(problems)),
	)
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, models.AuditSeverityWarning, "timetable.request_rejected",
		strings.Join(problems, "; "),
		map[string]any{"semester": req.Semester, "modules": req.Modules},
	)
}
