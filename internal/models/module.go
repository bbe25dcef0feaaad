package models

import "time"

// Module is a catalogue entry for one university course.
type Module struct {
	ID            string    `db:"id" json:"id"`
	Code          string    `db:"code" json:"code"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description,omitempty"`
	AcademicUnits int       `db:"academic_units" json:"academicUnits"`
	Faculty       string    `db:"faculty" json:"faculty,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// ModuleFilter narrows catalogue searches.
type ModuleFilter struct {
	Search    string
	Faculty   string
	Semester  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ModuleDetail is a module together with its selectable groups for a semester.
type ModuleDetail struct {
	Module   Module        `json:"module"`
	Semester string        `json:"semester"`
	Groups   []GroupOption `json:"groups"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
