package dto

import (
	"time"

	"github.com/modplan/modplan-api/internal/models"
)

// Daily load preferences recognised by the scorer.
const (
	LoadPreferenceSkewed   = "skewed"
	LoadPreferenceBalanced = "balanced"
)

// ModuleSelection names one requested module and the index numbers the
// student is eligible to register for, in preference order.
type ModuleSelection struct {
	Code         string   `json:"code" validate:"required"`
	IndexNumbers []string `json:"indexNumbers" validate:"required,min=1"`
}

// RangeFilter bounds a per-day measurement. Disabled ranges are ignored.
type RangeFilter struct {
	Enabled bool `json:"enabled"`
	Min     int  `json:"min"`
	Max     int  `json:"max"`
}

// TimeBoundFilter pins one edge of the daily class window ("HH:MM").
type TimeBoundFilter struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"`
}

// VenueFilter toggles which delivery modes are acceptable.
type VenueFilter struct {
	Online   bool `json:"online"`
	InPerson bool `json:"inPerson"`
}

// GenerationGoals are boolean scoring goals applied after filtering.
type GenerationGoals struct {
	BalanceWorkload bool `json:"balanceWorkload"`
	MinimizeDays    bool `json:"minimizeDays"`
	ConsecutiveDays bool `json:"consecutiveDays"`
}

// GenerationFilters carries every independently toggleable preference axis.
// DayDuration and ClassGap are measured in minutes; ConsecutiveClasses counts
// back-to-back sessions. Days keys are lowercase English day names; ClassTypes
// keys are lecture/tutorial/lab/seminar/project/design.
type GenerationFilters struct {
	DayDuration        RangeFilter     `json:"dayDuration"`
	ConsecutiveClasses RangeFilter     `json:"consecutiveClasses"`
	ClassGap           RangeFilter     `json:"classGap"`
	EarliestStart      TimeBoundFilter `json:"earliestStart"`
	LatestEnd          TimeBoundFilter `json:"latestEnd"`
	Days               map[string]bool `json:"daysOfWeek"`
	ClassTypes         map[string]bool `json:"classesToConsider"`
	Venues             VenueFilter     `json:"venues"`
	LoadPreference     string          `json:"dailyLoadPreference"`
	Goals              GenerationGoals `json:"goals"`
}

// GenerateTimetableRequest is the engine entrypoint payload.
type GenerateTimetableRequest struct {
	Modules  []ModuleSelection  `json:"modules" validate:"required,min=1,dive"`
	Filters  *GenerationFilters `json:"filters" validate:"required"`
	Semester string             `json:"semester" validate:"required"`
}

// GenerateTimetableResponse returns the ranked clash-free combinations.
// TotalCombinations counts clash-free assignments found by the search before
// preference filtering; ReturnedCount is the size of Combinations.
type GenerateTimetableResponse struct {
	Combinations      []models.Combination `json:"combinations"`
	TotalCombinations int                  `json:"totalCombinations"`
	ReturnedCount     int                  `json:"returnedCount"`
	HasMore           bool                 `json:"hasMore"`
	GeneratedAt       time.Time            `json:"generatedAt"`

	// WorkBudgetExhausted is surfaced through the response envelope meta, not
	// the body, so the documented body contract stays stable.
	WorkBudgetExhausted bool `json:"-"`
}

// ValidationResult reports accumulated request-validation failures.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ExportTimetableRequest renders one combination into a downloadable file.
type ExportTimetableRequest struct {
	Combination models.Combination `json:"combination" validate:"required"`
	Format      string             `json:"format" validate:"required,oneof=csv pdf"`
	Semester    string             `json:"semester"`
}
