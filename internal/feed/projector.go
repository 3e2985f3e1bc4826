package feed

import "github.com/swipebay/marketplace-service/internal/marketplace/domain"

// Project computes the visible feed from a store snapshot. It is a pure
// function; callers re-run it whenever any input changes.
//
// Exclusion order: self-owned listings, disliked, wishlisted, consumed
// (skipped) this session, then the filter predicate. Relative order of the
// snapshot is preserved, and the first element is the card currently shown.
// An empty currentUserID (signed out) disables self-exclusion.
func Project(
	snapshot []*domain.Listing,
	criteria Criteria,
	disliked map[string]struct{},
	wishlisted map[string]struct{},
	skipped map[string]struct{},
	currentUserID string,
) []*domain.Listing {
	visible := make([]*domain.Listing, 0, len(snapshot))
	for _, l := range snapshot {
		if l == nil || l.ID == "" {
			continue
		}
		if currentUserID != "" && l.SellerID == currentUserID {
			continue
		}
		if _, ok := disliked[l.ID]; ok {
			continue
		}
		if _, ok := wishlisted[l.ID]; ok {
			continue
		}
		if _, ok := skipped[l.ID]; ok {
			continue
		}
		if !criteria.Matches(l) {
			continue
		}
		visible = append(visible, l)
	}
	return visible
}
