package feed

import (
	"sync"

	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
)

// Store holds the raw, unfiltered collection of listings as pushed by the
// remote data source. Each delivery replaces the whole sequence atomically;
// there is no incremental patching. A failed delivery simply never reaches
// Replace, leaving the previous snapshot in place.
type Store struct {
	mu       sync.RWMutex
	listings []*domain.Listing
	ready    bool

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func())}
}

// Replace swaps in a new full-collection snapshot and notifies subscribers
// synchronously.
func (s *Store) Replace(listings []*domain.Listing) {
	s.mu.Lock()
	s.listings = append([]*domain.Listing(nil), listings...)
	s.ready = true
	s.mu.Unlock()

	s.notify()
}

// Snapshot returns the current sequence in arrival order. The returned slice
// is the caller's to keep.
func (s *Store) Snapshot() []*domain.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*domain.Listing(nil), s.listings...)
}

// Ready reports whether at least one snapshot has been delivered. It is the
// "still loading" vs "has data" observable; an empty ready store is a real
// empty marketplace, an unready one is still waiting for the first load.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Subscribe registers fn to run after every snapshot replacement. The
// returned function cancels the subscription.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
