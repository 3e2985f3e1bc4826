package feed

import (
	"errors"
	"sync"

	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
)

// Decision is the user's verdict on the current top-of-feed card.
type Decision string

const (
	DecisionLike    Decision = "like"
	DecisionDislike Decision = "dislike"
	DecisionSkip    Decision = "skip"
)

var (
	ErrFeedEmpty     = errors.New("feed is empty")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrBadDecision   = errors.New("unknown decision")
)

// undoRecord is the single-level undo slot: the most recently consumed
// listing together with how it was consumed. Overwritten on every consume,
// cleared by a successful undo.
type undoRecord struct {
	listing  *domain.Listing
	decision Decision
}

// Session is one user's live view of the feed: it joins the shared listing
// store with the user's preferences, filter criteria and per-session
// consumption state, and recomputes the visible feed synchronously whenever
// any of those inputs change.
//
// All mutations funnel through the session's mutex (single writer); reads
// hand out snapshot copies.
type Session struct {
	mu          sync.Mutex
	store       *Store
	prefs       *PreferenceSet
	userID      string
	criteria    Criteria
	skipped     map[string]struct{}
	lastRemoved *undoRecord
	visible     []*domain.Listing

	unsubscribe func()
}

// NewSession wires a session to the store and preference set. The caller is
// expected to have Loaded prefs already; Close releases the subscription.
func NewSession(store *Store, prefs *PreferenceSet, userID string) *Session {
	s := &Session{
		store:   store,
		prefs:   prefs,
		userID:  userID,
		skipped: make(map[string]struct{}),
	}
	prefs.SetOnChange(s.recompute)
	s.unsubscribe = store.Subscribe(s.recompute)
	s.recompute()
	return s
}

// Preferences exposes the session's preference set for the wishlist surface.
func (s *Session) Preferences() *PreferenceSet {
	return s.prefs
}

// Criteria returns the active filter.
func (s *Session) Criteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// SetCriteria replaces the filter wholesale and recomputes.
func (s *Session) SetCriteria(c Criteria) {
	s.mu.Lock()
	s.criteria = c
	s.mu.Unlock()
	s.recompute()
}

// ResetCriteria clears every filter clause.
func (s *Session) ResetCriteria() {
	s.SetCriteria(Criteria{})
}

// Visible returns the current feed, first element being the card shown.
func (s *Session) Visible() []*domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Listing(nil), s.visible...)
}

// Ready reports whether the backing store has received its first snapshot.
func (s *Session) Ready() bool {
	return s.store.Ready()
}

// Consume removes the current top card from the feed with the given
// decision and returns it. Likes and dislikes flow into the preference set;
// a plain skip is tracked per session so the card still never reappears.
// Each consume overwrites the previous undo opportunity.
func (s *Session) Consume(decision Decision) (*domain.Listing, error) {
	switch decision {
	case DecisionLike, DecisionDislike, DecisionSkip:
	default:
		return nil, ErrBadDecision
	}

	s.mu.Lock()
	if len(s.visible) == 0 {
		s.mu.Unlock()
		return nil, ErrFeedEmpty
	}
	top := s.visible[0]
	// Drop the card before releasing the lock so a concurrent consume
	// cannot take the same top; the recompute below rebuilds the slice.
	s.visible = s.visible[1:]
	s.lastRemoved = &undoRecord{listing: top, decision: decision}
	if decision == DecisionSkip {
		s.skipped[top.ID] = struct{}{}
	}
	s.mu.Unlock()

	switch decision {
	case DecisionDislike:
		s.prefs.Dislike(top)
	case DecisionLike:
		s.prefs.Wishlist(top)
	case DecisionSkip:
		s.recompute()
	}
	return top, nil
}

// Undo reverses the most recent consume symmetrically: a disliked card is
// un-disliked, a liked card is un-wishlisted, a skipped card is unskipped.
// Only one level is retained.
func (s *Session) Undo() (*domain.Listing, error) {
	s.mu.Lock()
	rec := s.lastRemoved
	if rec == nil {
		s.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	s.lastRemoved = nil
	if rec.decision == DecisionSkip {
		delete(s.skipped, rec.listing.ID)
	}
	s.mu.Unlock()

	switch rec.decision {
	case DecisionDislike:
		s.prefs.RemoveDislike(rec.listing.ID)
	case DecisionLike:
		s.prefs.Unwishlist(rec.listing.ID)
	case DecisionSkip:
		s.recompute()
	}
	return rec.listing, nil
}

// Close detaches the session from the store.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Session) recompute() {
	snapshot := s.store.Snapshot()
	disliked := s.prefs.IDs(Disliked)
	wishlisted := s.prefs.IDs(Wishlisted)

	s.mu.Lock()
	skipped := make(map[string]struct{}, len(s.skipped))
	for id := range s.skipped {
		skipped[id] = struct{}{}
	}
	s.visible = Project(snapshot, s.criteria, disliked, wishlisted, skipped, s.userID)
	s.mu.Unlock()
}
