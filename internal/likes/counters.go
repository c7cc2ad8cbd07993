package likes

import (
	"errors"
	"fmt"
)

// Counters holds the derived like/dislike totals stored on a target entity
type Counters struct {
	Likes    int `json:"likesCount"`
	Dislikes int `json:"dislikesCount"`
}

// ErrInvariantViolation means a transition would drive a counter negative.
// That can only happen when the stored counters and the reaction rows have
// drifted apart (e.g. two updates for the same pair interleaved), so it is
// surfaced as a hard error instead of being clamped.
var ErrInvariantViolation = errors.New("like counters out of sync with reactions")

// ApplyTransition returns the counters after a user moves from prev to
// requested. It is a pure function over the nine (prev, requested) pairs;
// requesting the current status is a no-op.
func ApplyTransition(c Counters, prev, requested Status) (Counters, error) {
	if prev == requested {
		return c, nil
	}

	switch prev {
	case StatusLike:
		c.Likes--
	case StatusDislike:
		c.Dislikes--
	}

	switch requested {
	case StatusLike:
		c.Likes++
	case StatusDislike:
		c.Dislikes++
	}

	if c.Likes < 0 || c.Dislikes < 0 {
		return Counters{}, fmt.Errorf("transition %s -> %s from %d/%d: %w",
			prev, requested, c.Likes, c.Dislikes, ErrInvariantViolation)
	}

	return c, nil
}
