package app

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func listContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/posts?"+query, nil)
	return c
}

func TestParseListParams_Defaults(t *testing.T) {
	params := parseListParams(listContext(t, ""))

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, defaultPageSize, params.PageSize)
	assert.Equal(t, "createdAt", params.SortBy)
	assert.Equal(t, "desc", params.SortDirection)
}

func TestParseListParams_Explicit(t *testing.T) {
	params := parseListParams(listContext(t, "pageNumber=3&pageSize=25&sortBy=login&sortDirection=asc"))

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 25, params.PageSize)
	assert.Equal(t, "login", params.SortBy)
	assert.Equal(t, "asc", params.SortDirection)
}

func TestParseListParams_InvalidValues(t *testing.T) {
	params := parseListParams(listContext(t, "pageNumber=-2&pageSize=junk&sortDirection=sideways"))

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, defaultPageSize, params.PageSize)
	assert.Equal(t, "desc", params.SortDirection)
}

func TestParseListParams_PageSizeCap(t *testing.T) {
	params := parseListParams(listContext(t, "pageSize=10000"))

	assert.Equal(t, maxPageSize, params.PageSize)
}
