package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/modplan/modplan-api/internal/models"
)

// ModuleRepository handles read access to the module catalogue.
type ModuleRepository struct {
	db *sqlx.DB
}

// NewModuleRepository creates a new repository instance.
func NewModuleRepository(db *sqlx.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

// List returns catalogue modules matching filters with a total count.
func (r *ModuleRepository) List(ctx context.Context, filter models.ModuleFilter) ([]models.Module, int, error) {
	base := "FROM modules WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Faculty != "" {
		conditions = append(conditions, fmt.Sprintf("faculty = $%d", len(args)+1))
		args = append(args, filter.Faculty)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(code) LIKE $%d OR LOWER(title) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM class_groups g WHERE g.module_code = modules.code AND g.semester = $%d)", len(args)+1))
		args = append(args, filter.Semester)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"code":       true,
		"title":      true,
		"faculty":    true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "code"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, code, title, description, academic_units, faculty, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)
	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list modules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count modules: %w", err)
	}

	return modules, total, nil
}

// FindByCode returns a catalogue module by its subject code.
func (r *ModuleRepository) FindByCode(ctx context.Context, code string) (*models.Module, error) {
	const query = `SELECT id, code, title, description, academic_units, faculty, created_at, updated_at FROM modules WHERE code = $1`
	var module models.Module
	if err := r.db.GetContext(ctx, &module, query, code); err != nil {
		return nil, err
	}
	return &module, nil
}

type groupSessionRow struct {
	IndexNumber string           `db:"index_number"`
	ClassType   models.ClassType `db:"class_type"`
	DayOfWeek   string           `db:"day_of_week"`
	StartTime   string           `db:"start_time"`
	EndTime     string           `db:"end_time"`
	Venue       string           `db:"venue"`
	Weeks       pq.Int64Array    `db:"weeks"`
}

// ListGroups returns every selectable group for a module in a semester, each
// with its full session list. Group order follows index number; session order
// within a group is stable across calls.
func (r *ModuleRepository) ListGroups(ctx context.Context, semester, moduleCode string) ([]models.GroupOption, error) {
	const query = `
		SELECT g.index_number, s.class_type, s.day_of_week, s.start_time, s.end_time, s.venue, s.weeks
		FROM class_groups g
		JOIN class_sessions s ON s.group_id = g.id
		WHERE g.module_code = $1 AND g.semester = $2
		ORDER BY g.index_number, s.day_of_week, s.start_time`

	var rows []groupSessionRow
	if err := r.db.SelectContext(ctx, &rows, query, moduleCode, semester); err != nil {
		return nil, fmt.Errorf("list groups for %s: %w", moduleCode, err)
	}

	var groups []models.GroupOption
	byIndex := make(map[string]int)
	for _, row := range rows {
		session := models.ClassSession{
			GroupID:   row.IndexNumber,
			Type:      row.ClassType,
			Day:       row.DayOfWeek,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			Venue:     row.Venue,
			Weeks:     toWeeks(row.Weeks),
		}
		position, ok := byIndex[row.IndexNumber]
		if !ok {
			position = len(groups)
			byIndex[row.IndexNumber] = position
			groups = append(groups, models.GroupOption{
				ModuleCode: moduleCode,
				GroupID:    row.IndexNumber,
			})
		}
		groups[position].Sessions = append(groups[position].Sessions, session)
	}
	return groups, nil
}

func toWeeks(raw pq.Int64Array) []int {
	if len(raw) == 0 {
		return nil
	}
	weeks := make([]int, len(raw))
	for i, week := range raw {
		weeks[i] = int(week)
	}
	return weeks
}
