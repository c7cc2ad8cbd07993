package likes

import "fmt"

// Status is a user's current reaction to a target (post or comment).
// StatusNone is never stored: the absence of a reaction row encodes it.
type Status string

const (
	StatusNone    Status = "None"
	StatusLike    Status = "Like"
	StatusDislike Status = "Dislike"
)

// ParseStatus converts a request string into a Status
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNone, StatusLike, StatusDislike:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid like status: %q", s)
}

// Valid reports whether the status is one of the three known states
func (s Status) Valid() bool {
	return s == StatusNone || s == StatusLike || s == StatusDislike
}
