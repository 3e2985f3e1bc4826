package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

func newTestSession(t *testing.T, userID string, listings ...*domain.Listing) (*Session, *fakeRemote) {
	t.Helper()
	store := NewStore()
	store.Replace(listings)
	remote := newFakeRemote()
	prefs := NewPreferenceSet(userID, remote, fakeLookup{}, logger.NewNop())
	s := NewSession(store, prefs, userID)
	t.Cleanup(s.Close)
	return s, remote
}

func TestSessionConsumeDislikeThenUndoRestoresFeed(t *testing.T) {
	s, remote := newTestSession(t, "u1",
		newListing("a", "s1", "10", "", "", ""),
		newListing("b", "s2", "20", "", "", ""),
		newListing("c", "s3", "30", "", "", ""),
	)
	before := idsOf(s.Visible())
	require.Equal(t, []string{"a", "b", "c"}, before)

	consumed, err := s.Consume(DecisionDislike)
	require.NoError(t, err)
	assert.Equal(t, "a", consumed.ID)
	assert.Equal(t, []string{"b", "c"}, idsOf(s.Visible()))

	// The dislike eventually reaches the remote store.
	require.Eventually(t, func() bool {
		ids := remote.dislikedIDs("u1")
		return len(ids) == 1 && ids[0] == "a"
	}, time.Second, 5*time.Millisecond)

	restored, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "a", restored.ID)
	assert.Equal(t, before, idsOf(s.Visible()), "undo restores pre-consume content and order")
	assert.Empty(t, s.Preferences().IDs(Disliked))

	require.Eventually(t, func() bool {
		return len(remote.dislikedIDs("u1")) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSessionConsumeLikeWishlistsAndUndoReverses(t *testing.T) {
	s, remote := newTestSession(t, "u1",
		newListing("a", "s1", "10", "", "", ""),
		newListing("b", "s2", "20", "", "", ""),
	)

	consumed, err := s.Consume(DecisionLike)
	require.NoError(t, err)
	assert.Equal(t, "a", consumed.ID)
	assert.Equal(t, []string{"b"}, idsOf(s.Visible()))
	assert.Contains(t, s.Preferences().IDs(Wishlisted), "a")

	require.Eventually(t, func() bool {
		ids := remote.wishlistIDs("u1")
		return len(ids) == 1 && ids[0] == "a"
	}, time.Second, 5*time.Millisecond)

	_, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, idsOf(s.Visible()))
	assert.NotContains(t, s.Preferences().IDs(Wishlisted), "a")
	assert.Empty(t, s.Preferences().Items())
}

func TestSessionSkippedCardNeverReappears(t *testing.T) {
	store := NewStore()
	a := newListing("a", "s1", "10", "", "", "")
	b := newListing("b", "s2", "20", "", "", "")
	store.Replace([]*domain.Listing{a, b})

	prefs := NewPreferenceSet("u1", newFakeRemote(), fakeLookup{}, logger.NewNop())
	s := NewSession(store, prefs, "u1")
	defer s.Close()

	consumed, err := s.Consume(DecisionSkip)
	require.NoError(t, err)
	assert.Equal(t, "a", consumed.ID)
	assert.Equal(t, []string{"b"}, idsOf(s.Visible()))

	// The skipped card is in neither preference set, yet stays gone across
	// filter changes and fresh snapshots.
	assert.Empty(t, prefs.IDs(Disliked))
	assert.Empty(t, prefs.IDs(Wishlisted))

	s.SetCriteria(NewCriteria(f64(5), nil, nil, nil, nil))
	assert.Equal(t, []string{"b"}, idsOf(s.Visible()))

	s.ResetCriteria()
	store.Replace([]*domain.Listing{a, b})
	assert.Equal(t, []string{"b"}, idsOf(s.Visible()))
}

func TestSessionUndoSkip(t *testing.T) {
	s, _ := newTestSession(t, "u1",
		newListing("a", "s1", "10", "", "", ""),
		newListing("b", "s2", "20", "", "", ""),
	)

	_, err := s.Consume(DecisionSkip)
	require.NoError(t, err)
	_, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, idsOf(s.Visible()))
}

func TestSessionSingleLevelUndo(t *testing.T) {
	s, _ := newTestSession(t, "u1",
		newListing("a", "s1", "10", "", "", ""),
		newListing("b", "s2", "20", "", "", ""),
		newListing("c", "s3", "30", "", "", ""),
	)

	_, err := s.Consume(DecisionDislike)
	require.NoError(t, err)
	_, err = s.Consume(DecisionDislike)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, idsOf(s.Visible()))

	// Only the second consumption can be reversed.
	restored, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "b", restored.ID)
	assert.Equal(t, []string{"b", "c"}, idsOf(s.Visible()))

	_, err = s.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestSessionConsumeEmptyFeed(t *testing.T) {
	s, _ := newTestSession(t, "u1")
	_, err := s.Consume(DecisionDislike)
	assert.ErrorIs(t, err, ErrFeedEmpty)
}

func TestSessionConsumeRejectsUnknownDecision(t *testing.T) {
	s, _ := newTestSession(t, "u1", newListing("a", "s1", "10", "", "", ""))
	_, err := s.Consume(Decision("maybe"))
	assert.ErrorIs(t, err, ErrBadDecision)
}

func TestSessionLocalStateVisibleBeforeRemoteCompletes(t *testing.T) {
	store := NewStore()
	store.Replace([]*domain.Listing{
		newListing("a", "s1", "10", "", "", ""),
		newListing("b", "s2", "20", "", "", ""),
	})
	remote := newFakeRemote()
	remote.block = make(chan struct{})
	prefs := NewPreferenceSet("u1", remote, fakeLookup{}, logger.NewNop())
	s := NewSession(store, prefs, "u1")
	defer s.Close()

	_, err := s.Consume(DecisionDislike)
	require.NoError(t, err)

	// Remote write is parked; the feed has already moved on.
	assert.Equal(t, []string{"b"}, idsOf(s.Visible()))
	assert.Empty(t, remote.dislikedIDs("u1"))

	close(remote.block)
	require.Eventually(t, func() bool {
		return len(remote.dislikedIDs("u1")) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSessionCriteriaReplacementRecomputes(t *testing.T) {
	s, _ := newTestSession(t, "u1",
		newListing("a", "s1", "10", "Electronics", "", ""),
		newListing("b", "s2", "25", "Home", "", ""),
		newListing("c", "s3", "40", "Electronics", "", ""),
	)

	s.SetCriteria(NewCriteria(f64(20), nil, []string{"electronics"}, nil, nil))
	assert.Equal(t, []string{"c"}, idsOf(s.Visible()))

	s.ResetCriteria()
	assert.Equal(t, []string{"a", "b", "c"}, idsOf(s.Visible()))
}

func TestSessionStoreSnapshotReplacementRecomputes(t *testing.T) {
	store := NewStore()
	store.Replace([]*domain.Listing{newListing("a", "s1", "10", "", "", "")})
	prefs := NewPreferenceSet("u1", newFakeRemote(), fakeLookup{}, logger.NewNop())
	s := NewSession(store, prefs, "u1")
	defer s.Close()

	require.Equal(t, []string{"a"}, idsOf(s.Visible()))

	store.Replace([]*domain.Listing{
		newListing("b", "s2", "20", "", "", ""),
		newListing("a", "s1", "10", "", "", ""),
	})
	assert.Equal(t, []string{"b", "a"}, idsOf(s.Visible()))
}

func TestSessionSelfListingsNeverShown(t *testing.T) {
	s, _ := newTestSession(t, "me",
		newListing("mine", "me", "10", "", "", ""),
		newListing("other", "you", "20", "", "", ""),
	)
	assert.Equal(t, []string{"other"}, idsOf(s.Visible()))

	s.SetCriteria(NewCriteria(f64(0), f64(100), nil, nil, nil))
	assert.Equal(t, []string{"other"}, idsOf(s.Visible()), "no criteria can admit a self-owned listing")
}

func TestManagerReusesAndDropsSessions(t *testing.T) {
	store := NewStore()
	store.Replace(nil)
	m := NewManager(store, newFakeRemote(), fakeLookup{}, logger.NewNop())
	ctx := context.Background()

	s1 := m.Session(ctx, "u1")
	s2 := m.Session(ctx, "u1")
	assert.Same(t, s1, s2)

	other := m.Session(ctx, "u2")
	assert.NotSame(t, s1, other)

	m.Drop("u1")
	s3 := m.Session(ctx, "u1")
	assert.NotSame(t, s1, s3)
}

func TestManagerLoadsPreferencesOnFirstAccess(t *testing.T) {
	store := NewStore()
	a := newListing("a", "s1", "10", "", "", "")
	b := newListing("b", "s2", "20", "", "", "")
	store.Replace([]*domain.Listing{a, b})

	remote := newFakeRemote()
	remote.disliked["u1"] = []string{"a"}
	m := NewManager(store, remote, fakeLookup{"a": a, "b": b}, logger.NewNop())

	s := m.Session(context.Background(), "u1")
	assert.Equal(t, []string{"b"}, idsOf(s.Visible()))
}

func TestSessionConcurrentConsumesTakeDistinctCards(t *testing.T) {
	const n = 16
	listings := make([]*domain.Listing, 0, n)
	for i := 0; i < n; i++ {
		listings = append(listings, newListing(fmt.Sprintf("l%02d", i), "s1", "10", "", "", ""))
	}
	s, _ := newTestSession(t, "u1", listings...)

	type result struct {
		id  string
		err error
	}
	results := make(chan result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l, err := s.Consume(DecisionSkip)
			if err != nil {
				results <- result{err: err}
				return
			}
			results <- result{id: l.ID}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]struct{}, n)
	for r := range results {
		require.NoError(t, r.err)
		_, dup := seen[r.id]
		assert.False(t, dup, "card %s consumed twice", r.id)
		seen[r.id] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Empty(t, s.Visible())
}
