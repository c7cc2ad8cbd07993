package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListParams_Offset(t *testing.T) {
	assert.Equal(t, 0, ListParams{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, ListParams{Page: 3, PageSize: 10}.Offset())
	assert.Equal(t, 0, ListParams{Page: 0, PageSize: 10}.Offset(), "page below 1 clamps to the first page")
}

func TestListParams_OrderClause(t *testing.T) {
	allowed := map[string]string{
		"createdAt": "created_at",
		"name":      "name",
	}

	tests := []struct {
		name      string
		params    ListParams
		wantOrder string
	}{
		{"whitelisted column desc", ListParams{SortBy: "name", SortDirection: "desc"}, "name DESC"},
		{"whitelisted column asc", ListParams{SortBy: "name", SortDirection: "asc"}, "name ASC"},
		{"unknown column falls back", ListParams{SortBy: "password_hash", SortDirection: "asc"}, "created_at ASC"},
		{"empty sort falls back to created_at desc", ListParams{}, "created_at DESC"},
		{"injection attempt is ignored", ListParams{SortBy: "name; DROP TABLE users"}, "created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOrder, tt.params.OrderClause(allowed))
		})
	}
}
