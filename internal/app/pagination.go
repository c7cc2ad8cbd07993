package app

import (
	"strconv"

	"bloggers-platform/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parseListParams reads the common pagination query params
// (pageNumber, pageSize, sortBy, sortDirection)
func parseListParams(c *gin.Context) repository.ListParams {
	page, err := strconv.Atoi(c.Query("pageNumber"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.Query("pageSize"))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	sortDirection := c.DefaultQuery("sortDirection", "desc")
	if sortDirection != "asc" {
		sortDirection = "desc"
	}

	return repository.ListParams{
		Page:          page,
		PageSize:      pageSize,
		SortBy:        c.DefaultQuery("sortBy", "createdAt"),
		SortDirection: sortDirection,
	}
}
