package likes

import (
	"context"
	"time"
)

// Reaction is a user's single current reaction to a target. At most one
// exists per (UserID, TargetID) pair; storage enforces that with a unique
// index and Upsert never creates a second row.
type Reaction struct {
	UserID    string
	TargetID  string
	Login     string
	Status    Status
	UpdatedAt time.Time
}

// Ledger is the store of current reactions. Implementations propagate
// storage errors unchanged; the engine never retries.
type Ledger interface {
	// GetReaction returns the current reaction for the pair, or nil when
	// the user has never reacted (which encodes StatusNone).
	GetReaction(ctx context.Context, userID, targetID string) (*Reaction, error)

	// UpsertReaction creates the reaction row or overwrites the status and
	// timestamp of the existing one.
	UpsertReaction(ctx context.Context, reaction Reaction) error

	// DeleteReaction removes the row; deleting an absent row is a no-op.
	DeleteReaction(ctx context.Context, userID, targetID string) error

	// ListRecentLikers returns up to limit entries with status=Like for the
	// target, most recent first.
	ListRecentLikers(ctx context.Context, targetID string, limit int) ([]LikerEntry, error)
}
