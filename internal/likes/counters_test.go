package likes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTransition_Table(t *testing.T) {
	start := Counters{Likes: 5, Dislikes: 5}

	tests := []struct {
		name      string
		prev      Status
		requested Status
		want      Counters
	}{
		{"none to none is a no-op", StatusNone, StatusNone, Counters{5, 5}},
		{"none to like", StatusNone, StatusLike, Counters{6, 5}},
		{"none to dislike", StatusNone, StatusDislike, Counters{5, 6}},
		{"like to none", StatusLike, StatusNone, Counters{4, 5}},
		{"like to like is a no-op", StatusLike, StatusLike, Counters{5, 5}},
		{"like to dislike", StatusLike, StatusDislike, Counters{4, 6}},
		{"dislike to none", StatusDislike, StatusNone, Counters{5, 4}},
		{"dislike to like", StatusDislike, StatusLike, Counters{6, 4}},
		{"dislike to dislike is a no-op", StatusDislike, StatusDislike, Counters{5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyTransition(start, tt.prev, tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyTransition_NeverGoesNegative(t *testing.T) {
	_, err := ApplyTransition(Counters{Likes: 0, Dislikes: 0}, StatusLike, StatusNone)
	require.ErrorIs(t, err, ErrInvariantViolation)

	_, err = ApplyTransition(Counters{Likes: 0, Dislikes: 0}, StatusDislike, StatusLike)
	require.ErrorIs(t, err, ErrInvariantViolation)
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"None", "Like", "Dislike"} {
		st, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.True(t, st.Valid())
	}

	for _, invalid := range []string{"", "like", "LIKE", "Meh"} {
		_, err := ParseStatus(invalid)
		assert.Error(t, err, "ParseStatus(%q)", invalid)
	}
}
