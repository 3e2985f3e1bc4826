package feed

import (
	"context"
	"sync"

	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

// Manager hands out one feed Session per user, creating it lazily on first
// access and loading the user's preferences from the remote store.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store  *Store
	remote domain.PreferenceRepository
	lookup ListingLookup
	log    *logger.Logger
}

func NewManager(store *Store, remote domain.PreferenceRepository, lookup ListingLookup, log *logger.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		remote:   remote,
		lookup:   lookup,
		log:      log,
	}
}

// Session returns the user's feed session, creating and loading it if
// needed. An empty userID yields a signed-out session with no preferences
// and no persistence.
func (m *Manager) Session(ctx context.Context, userID string) *Session {
	m.mu.Lock()
	if s, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return s
	}
	m.mu.Unlock()

	prefs := NewPreferenceSet(userID, m.remote, m.lookup, m.log)
	// A failed initial load leaves the sets empty; the session still works
	// and the next Drop/Session cycle retries.
	_ = prefs.Load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s
	}
	s := NewSession(m.store, prefs, userID)
	m.sessions[userID] = s
	return s
}

// Drop closes and forgets the user's session, e.g. on sign-out.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}
