package models

// ClassType enumerates the kinds of weekly meetings a class group can hold.
type ClassType string

const (
	ClassTypeLecture  ClassType = "LEC"
	ClassTypeTutorial ClassType = "TUT"
	ClassTypeLab      ClassType = "LAB"
	ClassTypeSeminar  ClassType = "SEM"
	ClassTypeProject  ClassType = "PRJ"
	ClassTypeDesign   ClassType = "DES"
)

// ClassSession is one recurring weekly meeting belonging to a class group.
// StartTime and EndTime are minute-of-day encoded as 4-digit strings ("0830").
// An empty Weeks slice means the session runs every offered week.
type ClassSession struct {
	GroupID   string    `db:"group_id" json:"indexNumber"`
	Type      ClassType `db:"class_type" json:"type"`
	Day       string    `db:"day_of_week" json:"day"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	Venue     string    `db:"venue" json:"venue"`
	Weeks     []int     `json:"weeks,omitempty"`
}

// GroupOption is one registration-selectable variant of a module's weekly
// sessions. A group may meet several times per week under the same index.
type GroupOption struct {
	ModuleCode string         `json:"moduleCode"`
	GroupID    string         `json:"indexNumber"`
	Sessions   []ClassSession `json:"sessions"`
}

// ResolvedModule pairs a requested module code with the catalogue-resolved
// group options the student is eligible for, in request order.
type ResolvedModule struct {
	Code   string        `json:"code"`
	Groups []GroupOption `json:"groups"`
}

// CombinationStats summarises one clash-free timetable for ranking and display.
type CombinationStats struct {
	DistinctDays  int     `json:"distinctDays"`
	WeeklyHours   float64 `json:"weeklyHours"`
	AvgGapMinutes float64 `json:"avgGapMinutes"`
	EarliestStart string  `json:"earliestStart"`
	LatestEnd     string  `json:"latestEnd"`
}

// Combination is one clash-free assignment of exactly one group per requested
// module, together with the flattened session list and ranking data.
type Combination struct {
	Assignments map[string]string `json:"moduleAssignments"`
	Sessions    []ClassSession    `json:"sessions"`
	Score       float64           `json:"score"`
	Stats       CombinationStats  `json:"stats"`
}
