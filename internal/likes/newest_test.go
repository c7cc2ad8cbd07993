package likes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNeedsRecompute(t *testing.T) {
	now := time.Now()
	cached := []LikerEntry{
		{UserID: "u4", Login: "dora", AddedAt: now},
		{UserID: "u3", Login: "carl", AddedAt: now.Add(-time.Minute)},
		{UserID: "u2", Login: "bob", AddedAt: now.Add(-2 * time.Minute)},
	}

	tests := []struct {
		name      string
		requested Status
		userID    string
		cached    []LikerEntry
		want      bool
	}{
		{"like always recomputes", StatusLike, "stranger", cached, true},
		{"like recomputes on empty cache", StatusLike, "u1", nil, true},
		{"dislike by featured user recomputes", StatusDislike, "u3", cached, true},
		{"none by featured user recomputes", StatusNone, "u4", cached, true},
		{"dislike by non-featured user keeps cache", StatusDislike, "stranger", cached, false},
		{"none by non-featured user keeps cache", StatusNone, "stranger", cached, false},
		{"none on empty cache keeps cache", StatusNone, "u1", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, needsRecompute(tt.requested, tt.userID, tt.cached))
		})
	}
}
