package repository

import "fmt"

// ListParams carries pagination and sorting for list queries
type ListParams struct {
	Page          int
	PageSize      int
	SortBy        string
	SortDirection string // asc or desc
}

// Offset returns the row offset for the current page
func (p ListParams) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.PageSize
}

// OrderClause builds a safe ORDER BY from a per-repository column whitelist;
// unknown sort fields fall back to created_at
func (p ListParams) OrderClause(allowed map[string]string) string {
	column, ok := allowed[p.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if p.SortDirection == "asc" {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s", column, direction)
}
