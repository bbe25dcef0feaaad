package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/modplan/modplan-api/internal/dto"
)

var (
	moduleCodePattern  = regexp.MustCompile(`^[A-Za-z]{2,3}[0-9]{4}[A-Za-z]?$`)
	indexNumberPattern = regexp.MustCompile(`^[0-9]{5}$`)
	clockPattern       = regexp.MustCompile(`^(?:[01][0-9]|2[0-3]):[0-5][0-9]$`)
)

var requiredDayKeys = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var requiredClassTypeKeys = []string{
	"lecture", "tutorial", "lab", "seminar", "project", "design",
}

// RequestValidator checks the shape and semantic validity of a generation
// request before any search runs. Violations are accumulated, not fail-fast,
// so the caller receives every problem in one pass.
type RequestValidator struct{}

// NewRequestValidator constructs the validator.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}

// Validate returns human-readable messages for every violation found. The
// engine may only run when the returned slice is empty.
func (v *RequestValidator) Validate(req dto.GenerateTimetableRequest) []string {
	var problems []string

	if len(req.Modules) == 0 {
		problems = append(problems, "at least one module must be selected")
	}
	for i, module := range req.Modules {
		problems = append(problems, v.validateModule(i, module)...)
	}

	if strings.TrimSpace(req.Semester) == "" {
		problems = append(problems, "semester is required")
	}

	if req.Filters == nil {
		problems = append(problems, "filters object is required")
		return problems
	}
	problems = append(problems, v.validateFilters(req.Filters)...)
	return problems
}

func (v *RequestValidator) validateModule(position int, module dto.ModuleSelection) []string {
	var problems []string
	label := module.Code
	if label == "" {
		label = fmt.Sprintf("modules[%d]", position)
	}

	if !moduleCodePattern.MatchString(module.Code) {
		problems = append(problems, fmt.Sprintf("%s: module code must be 2-3 letters, 4 digits and an optional trailing letter", label))
	}
	if len(module.IndexNumbers) == 0 {
		problems = append(problems, fmt.Sprintf("%s: at least one index number must be provided", label))
	}
	seen := make(map[string]bool, len(module.IndexNumbers))
	for _, index := range module.IndexNumbers {
		if !indexNumberPattern.MatchString(index) {
			problems = append(problems, fmt.Sprintf("%s: index number %q must be a 5-digit numeral", label, index))
		}
		if seen[index] {
			problems = append(problems, fmt.Sprintf("%s: index number %q is listed more than once", label, index))
		}
		seen[index] = true
	}
	return problems
}

func (v *RequestValidator) validateFilters(f *dto.GenerationFilters) []string {
	var problems []string

	problems = append(problems, validateRange("dayDuration", f.DayDuration)...)
	problems = append(problems, validateRange("consecutiveClasses", f.ConsecutiveClasses)...)
	problems = append(problems, validateRange("classGap", f.ClassGap)...)

	for _, key := range requiredDayKeys {
		if _, ok := f.Days[key]; !ok {
			problems = append(problems, fmt.Sprintf("daysOfWeek: %s flag is missing", key))
		}
	}

	anyType := false
	for _, key := range requiredClassTypeKeys {
		enabled, ok := f.ClassTypes[key]
		if !ok {
			problems = append(problems, fmt.Sprintf("classesToConsider: %s flag is missing", key))
			continue
		}
		if enabled {
			anyType = true
		}
	}
	if !anyType {
		problems = append(problems, "at least one class type must be selected")
	}

	if !f.Venues.Online && !f.Venues.InPerson {
		problems = append(problems, "at least one venue type must be selected")
	}

	switch f.LoadPreference {
	case dto.LoadPreferenceSkewed, dto.LoadPreferenceBalanced:
	default:
		problems = append(problems, fmt.Sprintf("dailyLoadPreference must be %q or %q", dto.LoadPreferenceSkewed, dto.LoadPreferenceBalanced))
	}

	if f.EarliestStart.Enabled && !clockPattern.MatchString(f.EarliestStart.Time) {
		problems = append(problems, "earliestStart time must match 24-hour HH:MM")
	}
	if f.LatestEnd.Enabled && !clockPattern.MatchString(f.LatestEnd.Time) {
		problems = append(problems, "latestEnd time must match 24-hour HH:MM")
	}
	return problems
}

func validateRange(name string, r dto.RangeFilter) []string {
	if !r.Enabled {
		return nil
	}
	var problems []string
	if r.Min < 0 || r.Max < 0 {
		problems = append(problems, fmt.Sprintf("%s bounds must be non-negative", name))
	}
	if r.Min > r.Max {
		problems = append(problems, fmt.Sprintf("%s min must not exceed max", name))
	}
	return problems
}
