package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

// Kind selects one of the two preference id sets.
type Kind string

const (
	Disliked   Kind = "disliked"
	Wishlisted Kind = "wishlisted"
)

// ListingLookup hydrates a full listing from a bare id.
// domain.ListingRepository satisfies it, as does the cache-backed lookup.
type ListingLookup interface {
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
}

// PreferenceSet mirrors the signed-in user's disliked and wishlisted ids
// locally for synchronous predicate reads, and persists mutations through
// the remote collaborator as fire-and-forget background writes.
//
// Local state is authoritative for the UI: a mutation is visible to the
// projector before the remote round trip completes, and a failed write is
// logged but never rolled back. Divergence reconciles on the next Load.
//
// An empty userID means signed out: local state still works so the feed
// keeps functioning, but no remote calls are made.
type PreferenceSet struct {
	mu         sync.RWMutex
	userID     string
	disliked   map[string]struct{}
	wishlisted map[string]struct{}
	items      []*domain.Listing // wishlist in addition order

	remote domain.PreferenceRepository
	lookup ListingLookup
	log    *logger.Logger

	onChange func() // invoked outside the lock after every local mutation
}

func NewPreferenceSet(userID string, remote domain.PreferenceRepository, lookup ListingLookup, log *logger.Logger) *PreferenceSet {
	return &PreferenceSet{
		userID:     userID,
		disliked:   make(map[string]struct{}),
		wishlisted: make(map[string]struct{}),
		remote:     remote,
		lookup:     lookup,
		log:        log,
	}
}

// SetOnChange registers the change callback. Must be called before the set
// is shared between goroutines.
func (p *PreferenceSet) SetOnChange(fn func()) {
	p.onChange = fn
}

// Load populates both sets from the remote collaborator and hydrates the
// wishlist items. A read failure leaves the previous local state in place;
// wishlist ids that no longer resolve to a listing are dropped silently.
func (p *PreferenceSet) Load(ctx context.Context) error {
	if p.userID == "" {
		return nil
	}

	dislikedIDs, err := p.remote.GetDisliked(ctx, p.userID)
	if err != nil {
		p.log.Warn("failed to load disliked ids", zap.String("user_id", p.userID), zap.Error(err))
		return err
	}
	wishlistIDs, err := p.remote.GetWishlist(ctx, p.userID)
	if err != nil {
		p.log.Warn("failed to load wishlist ids", zap.String("user_id", p.userID), zap.Error(err))
		return err
	}

	items := make([]*domain.Listing, 0, len(wishlistIDs))
	for _, id := range wishlistIDs {
		listing, err := p.lookup.FindByID(ctx, id)
		if err != nil || listing == nil {
			p.log.Debug("dropping unresolvable wishlist id", zap.String("listing_id", id))
			continue
		}
		items = append(items, listing)
	}

	p.mu.Lock()
	p.disliked = make(map[string]struct{}, len(dislikedIDs))
	for _, id := range dislikedIDs {
		p.disliked[id] = struct{}{}
	}
	p.wishlisted = make(map[string]struct{}, len(wishlistIDs))
	for _, id := range wishlistIDs {
		p.wishlisted[id] = struct{}{}
	}
	p.items = items
	p.mu.Unlock()

	p.changed()
	return nil
}

// Dislike adds the listing to the disliked set and schedules persistence.
// Listings without an assigned id are ignored.
func (p *PreferenceSet) Dislike(listing *domain.Listing) {
	if listing == nil || listing.ID == "" {
		return
	}

	p.mu.Lock()
	p.disliked[listing.ID] = struct{}{}
	p.mu.Unlock()
	p.changed()

	if p.userID == "" {
		return
	}
	go func() {
		if err := p.remote.SetDisliked(context.Background(), p.userID, listing); err != nil {
			p.log.Warn("failed to persist dislike",
				zap.String("user_id", p.userID), zap.String("listing_id", listing.ID), zap.Error(err))
		}
	}()
}

// RemoveDislike takes the id back out of the disliked set (undo path).
func (p *PreferenceSet) RemoveDislike(listingID string) {
	if listingID == "" {
		return
	}

	p.mu.Lock()
	delete(p.disliked, listingID)
	p.mu.Unlock()
	p.changed()

	if p.userID == "" {
		return
	}
	go func() {
		if err := p.remote.RemoveDisliked(context.Background(), p.userID, listingID); err != nil {
			p.log.Warn("failed to persist dislike removal",
				zap.String("user_id", p.userID), zap.String("listing_id", listingID), zap.Error(err))
		}
	}()
}

// Wishlist adds the listing to the local wishlist and schedules persistence.
// Already-wishlisted listings and listings without an id are ignored.
func (p *PreferenceSet) Wishlist(listing *domain.Listing) {
	if listing == nil || listing.ID == "" {
		return
	}

	p.mu.Lock()
	if _, ok := p.wishlisted[listing.ID]; ok {
		p.mu.Unlock()
		return
	}
	p.wishlisted[listing.ID] = struct{}{}
	p.items = append(p.items, listing)
	p.mu.Unlock()
	p.changed()

	if p.userID == "" {
		return
	}
	go func() {
		if err := p.remote.AddToWishlist(context.Background(), p.userID, listing.ID); err != nil {
			p.log.Warn("failed to persist wishlist addition",
				zap.String("user_id", p.userID), zap.String("listing_id", listing.ID), zap.Error(err))
		}
	}()
}

// Unwishlist removes the id from both local structures and schedules the
// remote removal.
func (p *PreferenceSet) Unwishlist(listingID string) {
	if listingID == "" {
		return
	}

	p.mu.Lock()
	delete(p.wishlisted, listingID)
	kept := p.items[:0]
	for _, item := range p.items {
		if item.ID != listingID {
			kept = append(kept, item)
		}
	}
	p.items = kept
	p.mu.Unlock()
	p.changed()

	if p.userID == "" {
		return
	}
	go func() {
		if err := p.remote.RemoveFromWishlist(context.Background(), p.userID, listingID); err != nil {
			p.log.Warn("failed to persist wishlist removal",
				zap.String("user_id", p.userID), zap.String("listing_id", listingID), zap.Error(err))
		}
	}()
}

// IDs returns a snapshot of the requested id set for synchronous predicate
// use by the projector.
func (p *PreferenceSet) IDs(kind Kind) map[string]struct{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var src map[string]struct{}
	if kind == Disliked {
		src = p.disliked
	} else {
		src = p.wishlisted
	}
	out := make(map[string]struct{}, len(src))
	for id := range src {
		out[id] = struct{}{}
	}
	return out
}

// Items returns the hydrated wishlist in addition order.
func (p *PreferenceSet) Items() []*domain.Listing {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*domain.Listing(nil), p.items...)
}

func (p *PreferenceSet) changed() {
	if p.onChange != nil {
		p.onChange()
	}
}
