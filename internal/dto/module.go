package dto

// ModuleListQuery filters catalogue searches.
type ModuleListQuery struct {
	Search    string `form:"search" json:"search"`
	Faculty   string `form:"faculty" json:"faculty"`
	Semester  string `form:"semester" json:"semester"`
	Page      int    `form:"page" json:"page"`
	PageSize  int    `form:"pageSize" json:"pageSize"`
	SortBy    string `form:"sortBy" json:"sortBy"`
	SortOrder string `form:"sortOrder" json:"sortOrder"`
}
