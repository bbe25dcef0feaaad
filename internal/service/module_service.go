package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/modplan/modplan-api/internal/dto"
	"github.com/modplan/modplan-api/internal/models"
	appErrors "github.com/modplan/modplan-api/pkg/errors"
)

type moduleStore interface {
	List(ctx context.Context, filter models.ModuleFilter) ([]models.Module, int, error)
	FindByCode(ctx context.Context, code string) (*models.Module, error)
	ListGroups(ctx context.Context, semester, moduleCode string) ([]models.GroupOption, error)
}

// ModuleService serves the read-only catalogue API students browse before
// planning a timetable.
type ModuleService struct {
	modules moduleStore
	cache   *CacheService
	logger  *zap.Logger
}

// NewModuleService wires catalogue dependencies.
func NewModuleService(modules moduleStore, cache *CacheService, logger *zap.Logger) *ModuleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModuleService{modules: modules, cache: cache, logger: logger}
}

// List returns catalogue modules matching the query with pagination metadata.
func (s *ModuleService) List(ctx context.Context, query dto.ModuleListQuery) ([]models.Module, *models.Pagination, error) {
	filter := models.ModuleFilter{
		Search:    query.Search,
		Faculty:   query.Faculty,
		Semester:  query.Semester,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	modules, total, err := s.modules.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list modules")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return modules, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one module with its selectable groups for the given semester.
func (s *ModuleService) Get(ctx context.Context, code, semester string) (*models.ModuleDetail, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "module code is required")
	}
	if semester == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester is required")
	}

	module, err := s.modules.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("module %s not found", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}

	groups, err := s.listGroups(ctx, semester, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module groups")
	}

	return &models.ModuleDetail{Module: *module, Semester: semester, Groups: groups}, nil
}

func (s *ModuleService) listGroups(ctx context.Context, semester, code string) ([]models.GroupOption, error) {
	key := fmt.Sprintf("catalogue:groups:%s:%s", semester, code)
	if s.cache.Enabled() {
		var cached []models.GroupOption
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}
	groups, err := s.modules.ListGroups(ctx, semester, code)
	if err != nil {
		return nil, err
	}
	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, key, groups, 0)
	}
	return groups, nil
}
