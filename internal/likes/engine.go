package likes

import (
	"context"
	"time"
)

// TargetState is the target's current derived like info, loaded by the
// caller from wherever the target entity lives (post or comment row).
type TargetState struct {
	Counts       Counters
	NewestLikers []LikerEntry
}

// Result is what a single reaction update produced. Counts always carries
// the new totals; NewestLikers is the refreshed projection when Recomputed
// is set, otherwise the unchanged cached one.
type Result struct {
	Counts       Counters
	NewestLikers []LikerEntry
	Recomputed   bool
}

// TargetTx is the transactional scope one reaction update runs in: the
// ledger plus the target's load and persist, all bound to the same commit.
// The ledger mutation and the counter write either both land or neither
// does; a persist failure rolls the ledger row back too.
type TargetTx struct {
	Ledger  Ledger
	Load    func(ctx context.Context) (TargetState, error)
	Persist func(ctx context.Context, res Result) error
}

// BeginTxFunc opens the scope and runs fn inside it, committing on nil
// and rolling back on error.
type BeginTxFunc func(ctx context.Context, fn func(ctx context.Context, tx TargetTx) error) error

// Updater is the single entry point for reaction updates. It owns the
// transition table, the ledger mutation and the newest-likers recompute
// policy; it holds no state of its own beyond the per-target locks.
type Updater struct {
	locks *pairLocks
	now   func() time.Time
}

func NewUpdater() *Updater {
	return &Updater{
		locks: newPairLocks(),
		now:   time.Now,
	}
}

// UpdateReaction applies the requested status for (userID, targetID).
//
// The begin callback opens the storage transaction; everything the engine
// does runs inside it and inside the target's update lock, so the whole
// read-modify-write cycle is serialized per target and commits as one
// unit. Different targets proceed in parallel.
//
// The previous status is derived from the ledger (absence means None),
// the new counters come from the transition table, the ledger row is
// deleted on None and upserted otherwise, and the newest-likers
// projection is re-queried only when the transition could have changed
// the visible top-3.
func (u *Updater) UpdateReaction(
	ctx context.Context,
	userID, login, targetID string,
	requested Status,
	begin BeginTxFunc,
) (Result, error) {
	unlock := u.locks.lock(targetID)
	defer unlock()

	var result Result
	err := begin(ctx, func(ctx context.Context, tx TargetTx) error {
		state, err := tx.Load(ctx)
		if err != nil {
			return err
		}

		prev := StatusNone
		existing, err := tx.Ledger.GetReaction(ctx, userID, targetID)
		if err != nil {
			return err
		}
		if existing != nil {
			prev = existing.Status
		}

		newCounts, err := ApplyTransition(state.Counts, prev, requested)
		if err != nil {
			return err
		}

		if prev != requested {
			if requested == StatusNone {
				if err := tx.Ledger.DeleteReaction(ctx, userID, targetID); err != nil {
					return err
				}
			} else {
				err := tx.Ledger.UpsertReaction(ctx, Reaction{
					UserID:    userID,
					TargetID:  targetID,
					Login:     login,
					Status:    requested,
					UpdatedAt: u.now(),
				})
				if err != nil {
					return err
				}
			}
		}

		result = Result{
			Counts:       newCounts,
			NewestLikers: state.NewestLikers,
		}

		if needsRecompute(requested, userID, state.NewestLikers) {
			newest, err := tx.Ledger.ListRecentLikers(ctx, targetID, NewestLikersLimit)
			if err != nil {
				return err
			}
			result.NewestLikers = newest
			result.Recomputed = true
		}

		return tx.Persist(ctx, result)
	})
	if err != nil {
		return Result{}, err
	}

	return result, nil
}
