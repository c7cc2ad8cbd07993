package likes

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger is an in-memory Ledger with the same ordering semantics as the
// real one: updated_at descending, ties broken by insertion sequence.
type fakeLedger struct {
	mu        sync.Mutex
	rows      map[string]*fakeRow // key: userID + "|" + targetID
	seq       int64
	listCalls int
}

type fakeRow struct {
	Reaction
	seq int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[string]*fakeRow)}
}

func (f *fakeLedger) key(userID, targetID string) string {
	return userID + "|" + targetID
}

func (f *fakeLedger) GetReaction(_ context.Context, userID, targetID string) (*Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[f.key(userID, targetID)]
	if !ok {
		return nil, nil
	}
	r := row.Reaction
	return &r, nil
}

func (f *fakeLedger) UpsertReaction(_ context.Context, reaction Reaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := f.key(reaction.UserID, reaction.TargetID)
	f.seq++
	if row, ok := f.rows[key]; ok {
		row.Status = reaction.Status
		row.UpdatedAt = reaction.UpdatedAt
		row.seq = f.seq
		return nil
	}
	f.rows[key] = &fakeRow{Reaction: reaction, seq: f.seq}
	return nil
}

func (f *fakeLedger) DeleteReaction(_ context.Context, userID, targetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, f.key(userID, targetID))
	return nil
}

func (f *fakeLedger) ListRecentLikers(_ context.Context, targetID string, limit int) ([]LikerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++

	var likers []*fakeRow
	for _, row := range f.rows {
		if row.TargetID == targetID && row.Status == StatusLike {
			likers = append(likers, row)
		}
	}
	sort.Slice(likers, func(i, j int) bool {
		if !likers[i].UpdatedAt.Equal(likers[j].UpdatedAt) {
			return likers[i].UpdatedAt.After(likers[j].UpdatedAt)
		}
		return likers[i].seq > likers[j].seq
	})
	if len(likers) > limit {
		likers = likers[:limit]
	}

	entries := make([]LikerEntry, 0, len(likers))
	for _, row := range likers {
		entries = append(entries, LikerEntry{UserID: row.UserID, Login: row.Login, AddedAt: row.UpdatedAt})
	}
	return entries, nil
}

// snapshot copies the current rows so a failed transaction can restore them
func (f *fakeLedger) snapshot() map[string]*fakeRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[string]*fakeRow, len(f.rows))
	for k, v := range f.rows {
		row := *v
		snap[k] = &row
	}
	return snap
}

func (f *fakeLedger) restore(snap map[string]*fakeRow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = snap
}

// recount recomputes the counters for a target directly from the rows
func (f *fakeLedger) recount(targetID string) Counters {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c Counters
	for _, row := range f.rows {
		if row.TargetID != targetID {
			continue
		}
		switch row.Status {
		case StatusLike:
			c.Likes++
		case StatusDislike:
			c.Dislikes++
		}
	}
	return c
}

// fakeTarget plays the role of the post/comment row owning the derived
// state, together with the transaction both writes ride in: on error the
// ledger and the target state roll back to where the update started.
type fakeTarget struct {
	mu         sync.Mutex
	state      TargetState
	ledger     *fakeLedger
	persistErr error
}

func newFakeTarget(ledger *fakeLedger) *fakeTarget {
	return &fakeTarget{ledger: ledger}
}

func (t *fakeTarget) begin(ctx context.Context, fn func(ctx context.Context, tx TargetTx) error) error {
	ledgerSnap := t.ledger.snapshot()
	t.mu.Lock()
	stateSnap := t.state
	t.mu.Unlock()

	err := fn(ctx, TargetTx{
		Ledger: t.ledger,
		Load: func(context.Context) (TargetState, error) {
			t.mu.Lock()
			defer t.mu.Unlock()
			return t.state, nil
		},
		Persist: func(_ context.Context, res Result) error {
			if t.persistErr != nil {
				return t.persistErr
			}
			t.mu.Lock()
			defer t.mu.Unlock()
			t.state = TargetState{Counts: res.Counts, NewestLikers: res.NewestLikers}
			return nil
		},
	})
	if err != nil {
		t.ledger.restore(ledgerSnap)
		t.mu.Lock()
		t.state = stateSnap
		t.mu.Unlock()
	}
	return err
}

func newTestUpdater() *Updater {
	u := NewUpdater()
	// strictly increasing clock so recency ordering is deterministic
	var mu sync.Mutex
	var tick int64
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	u.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return u
}

func likerIDs(entries []LikerEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	return ids
}

func TestUpdateReaction_LikeThenRepeatThenDislike(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	updater := newTestUpdater()
	target := newFakeTarget(ledger)

	// first like
	res, err := updater.UpdateReaction(ctx, "u1", "alice", "post-1", StatusLike, target.begin)
	require.NoError(t, err)
	assert.Equal(t, Counters{Likes: 1, Dislikes: 0}, res.Counts)
	assert.True(t, res.Recomputed)
	assert.Equal(t, []string{"u1"}, likerIDs(res.NewestLikers))

	// same status again: idempotent
	res, err = updater.UpdateReaction(ctx, "u1", "alice", "post-1", StatusLike, target.begin)
	require.NoError(t, err)
	assert.Equal(t, Counters{Likes: 1, Dislikes: 0}, res.Counts)
	assert.Equal(t, []string{"u1"}, likerIDs(res.NewestLikers))
	assert.Equal(t, Counters{Likes: 1}, ledger.recount("post-1"))

	// switch to dislike
	res, err = updater.UpdateReaction(ctx, "u1", "alice", "post-1", StatusDislike, target.begin)
	require.NoError(t, err)
	assert.Equal(t, Counters{Likes: 0, Dislikes: 1}, res.Counts)
	assert.True(t, res.Recomputed)
	assert.Empty(t, res.NewestLikers)
	assert.Equal(t, res.Counts, ledger.recount("post-1"))
	assert.Equal(t, res.Counts, target.state.Counts, "persist must receive the new counters")
}

func TestUpdateReaction_NewestLikersKeepsThreeMostRecent(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	updater := newTestUpdater()
	target := newFakeTarget(ledger)

	for i, user := range []string{"u1", "u2", "u3", "u4"} {
		_, err := updater.UpdateReaction(ctx, user, fmt.Sprintf("login%d", i+1), "post-1", StatusLike, target.begin)
		require.NoError(t, err)
	}

	assert.Equal(t, Counters{Likes: 4, Dislikes: 0}, target.state.Counts)
	assert.Equal(t, []string{"u4", "u3", "u2"}, likerIDs(target.state.NewestLikers))

	// u3 withdraws: featured user leaving must promote the oldest liker back
	res, err := updater.UpdateReaction(ctx, "u3", "login3", "post-1", StatusNone, target.begin)
	require.NoError(t, err)
	assert.Equal(t, Counters{Likes: 3, Dislikes: 0}, res.Counts)
	assert.True(t, res.Recomputed)
	assert.Equal(t, []string{"u4", "u2", "u1"}, likerIDs(res.NewestLikers))
}

func TestUpdateReaction_DislikeByNonFeaturedUserSkipsRecompute(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	updater := newTestUpdater()
	target := newFakeTarget(ledger)

	for _, user := range []string{"u1", "u2", "u3"} {
		_, err := updater.UpdateReaction(ctx, user, user, "post-1", StatusLike, target.begin)
		require.NoError(t, err)
	}

	before := ledger.listCalls
	res, err := updater.UpdateReaction(ctx, "u9", "u9", "post-1", StatusDislike, target.begin)
	require.NoError(t, err)
	assert.Equal(t, Counters{Likes: 3, Dislikes: 1}, res.Counts)
	assert.False(t, res.Recomputed)
	assert.Equal(t, before, ledger.listCalls, "top-3 cannot have changed, no re-query expected")
	assert.Equal(t, []string{"u3", "u2", "u1"}, likerIDs(res.NewestLikers))

	// setting None with no prior reaction is a full no-op
	res, err = updater.UpdateReaction(ctx, "u10", "u10", "post-1", StatusNone, target.begin)
	require.NoError(t, err)
	assert.Equal(t, Counters{Likes: 3, Dislikes: 1}, res.Counts)
	assert.False(t, res.Recomputed)
}

func TestUpdateReaction_FailingPersistRollsBackLedger(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	updater := newTestUpdater()
	target := newFakeTarget(ledger)

	// counter write fails: the reaction row must not survive either,
	// or the next retraction would drive the counter negative
	target.persistErr = errors.New("connection reset")
	_, err := updater.UpdateReaction(ctx, "u1", "alice", "post-1", StatusLike, target.begin)
	require.Error(t, err)
	assert.Equal(t, Counters{}, ledger.recount("post-1"), "ledger write must roll back with the counter write")
	assert.Equal(t, Counters{}, target.state.Counts)

	// after the failure the pair is still consistent: None is a no-op,
	// not an invariant violation
	target.persistErr = nil
	res, err := updater.UpdateReaction(ctx, "u1", "alice", "post-1", StatusNone, target.begin)
	require.NoError(t, err)
	assert.Equal(t, Counters{}, res.Counts)

	// and a retried like lands cleanly
	res, err = updater.UpdateReaction(ctx, "u1", "alice", "post-1", StatusLike, target.begin)
	require.NoError(t, err)
	assert.Equal(t, Counters{Likes: 1, Dislikes: 0}, res.Counts)
	assert.Equal(t, ledger.recount("post-1"), res.Counts)
}

func TestUpdateReaction_RandomSequencesStayConsistent(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	updater := newTestUpdater()
	target := newFakeTarget(ledger)
	rng := rand.New(rand.NewSource(42))

	statuses := []Status{StatusNone, StatusLike, StatusDislike}
	users := []string{"u1", "u2", "u3", "u4", "u5"}

	for i := 0; i < 500; i++ {
		user := users[rng.Intn(len(users))]
		requested := statuses[rng.Intn(len(statuses))]

		_, err := updater.UpdateReaction(ctx, user, "login-"+user, "post-1", requested, target.begin)
		require.NoError(t, err)

		counts := target.state.Counts
		newest := target.state.NewestLikers

		require.GreaterOrEqual(t, counts.Likes, 0)
		require.GreaterOrEqual(t, counts.Dislikes, 0)
		require.Equal(t, ledger.recount("post-1"), counts, "counters drifted from raw rows at step %d", i)

		require.LessOrEqual(t, len(newest), NewestLikersLimit)
		seen := make(map[string]bool)
		for j, entry := range newest {
			require.False(t, seen[entry.UserID], "duplicate user in projection")
			seen[entry.UserID] = true
			if j > 0 {
				require.False(t, newest[j-1].AddedAt.Before(entry.AddedAt), "projection not sorted by recency")
			}
		}
	}
}

func TestUpdateReaction_ConcurrentUpdatesSameTarget(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	updater := newTestUpdater()
	target := newFakeTarget(ledger)

	// every user races through Like -> Dislike -> Like on one target; the
	// per-target lock must keep the persisted counters exact
	const users = 20
	var wg sync.WaitGroup
	errs := make(chan error, users)
	for i := 0; i < users; i++ {
		userID := fmt.Sprintf("u%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, st := range []Status{StatusLike, StatusDislike, StatusLike} {
				if _, err := updater.UpdateReaction(ctx, userID, userID, "post-1", st, target.begin); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	assert.Equal(t, Counters{Likes: users, Dislikes: 0}, target.state.Counts)
	assert.Equal(t, ledger.recount("post-1"), target.state.Counts)
	assert.Len(t, target.state.NewestLikers, NewestLikersLimit)
}

func TestUpdateReaction_IndependentTargetsInParallel(t *testing.T) {
	ctx := context.Background()
	updater := newTestUpdater()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	ledgers := make([]*fakeLedger, 8)
	for i := 0; i < 8; i++ {
		i := i
		targetID := fmt.Sprintf("post-%d", i)
		ledgers[i] = newFakeLedger()
		wg.Add(1)
		go func() {
			defer wg.Done()
			target := newFakeTarget(ledgers[i])
			for _, st := range []Status{StatusLike, StatusDislike, StatusLike, StatusNone, StatusLike} {
				if _, err := updater.UpdateReaction(ctx, "u1", "alice", targetID, st, target.begin); err != nil {
					errs <- err
					return
				}
			}
			if target.state.Counts != (Counters{Likes: 1, Dislikes: 0}) {
				errs <- fmt.Errorf("%s ended with %+v", targetID, target.state.Counts)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	for i := 0; i < 8; i++ {
		assert.Equal(t, Counters{Likes: 1}, ledgers[i].recount(fmt.Sprintf("post-%d", i)))
	}
}

func TestPairLocks_SerializesSameTarget(t *testing.T) {
	locks := newPairLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("post-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	locks.mu.Lock()
	assert.Empty(t, locks.locks, "released locks should be evicted")
	locks.mu.Unlock()
}
