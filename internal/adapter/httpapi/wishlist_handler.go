package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swipebay/marketplace-service/internal/feed"
	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
	"github.com/swipebay/marketplace-service/internal/platform/metrics"
)

// WishlistHandler mutates the wishlist through the user's live feed
// session, so additions and removals are reflected in the visible feed
// immediately.
type WishlistHandler struct {
	manager *feed.Manager
	lookup  feed.ListingLookup
	metrics *metrics.Manager
	logger  *logger.Logger
}

func NewWishlistHandler(manager *feed.Manager, lookup feed.ListingLookup, m *metrics.Manager, log *logger.Logger) *WishlistHandler {
	return &WishlistHandler{manager: manager, lookup: lookup, metrics: m, logger: log}
}

type wishlistResponse struct {
	Listings []listingResponse `json:"listings"`
}

func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := h.manager.Session(r.Context(), UserIDFromContext(r.Context()))
	respond(w, http.StatusOK, wishlistResponse{
		Listings: toListingResponses(session.Preferences().Items()),
	})
}

type wishlistAddRequest struct {
	ListingID string `json:"listing_id"`
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req wishlistAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ListingID == "" {
		respond(w, http.StatusBadRequest, errorResponse{Error: "listing_id is required"})
		return
	}

	listing, err := h.lookup.FindByID(r.Context(), req.ListingID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if listing == nil {
		respondError(w, h.logger, domain.ErrListingNotFound)
		return
	}

	session := h.manager.Session(r.Context(), UserIDFromContext(r.Context()))
	session.Preferences().Wishlist(listing)

	if h.metrics != nil {
		h.metrics.WishlistAddsTotal.Inc()
	}
	respond(w, http.StatusCreated, wishlistResponse{
		Listings: toListingResponses(session.Preferences().Items()),
	})
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	if listingID == "" {
		respond(w, http.StatusBadRequest, errorResponse{Error: "listing id is required"})
		return
	}

	session := h.manager.Session(r.Context(), UserIDFromContext(r.Context()))
	session.Preferences().Unwishlist(listingID)

	respond(w, http.StatusOK, wishlistResponse{
		Listings: toListingResponses(session.Preferences().Items()),
	})
}
