package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/swipebay/marketplace-service/internal/feed"
	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
	"github.com/swipebay/marketplace-service/internal/platform/metrics"
)

type FeedHandler struct {
	manager *feed.Manager
	metrics *metrics.Manager
	logger  *logger.Logger
}

func NewFeedHandler(manager *feed.Manager, m *metrics.Manager, log *logger.Logger) *FeedHandler {
	return &FeedHandler{manager: manager, metrics: m, logger: log}
}

type listingResponse struct {
	ID           string    `json:"id"`
	SellerID     string    `json:"seller_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Price        string    `json:"price"`
	Category     string    `json:"category,omitempty"`
	Condition    string    `json:"condition,omitempty"`
	Region       string    `json:"region,omitempty"`
	Status       string    `json:"status"`
	ImageURLs    []string  `json:"image_urls,omitempty"`
	WishlistedBy int       `json:"wishlisted_by"`
	CreatedAt    time.Time `json:"created_at"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		ID:           l.ID,
		SellerID:     l.SellerID,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		Category:     l.Category,
		Condition:    l.Condition,
		Region:       l.Region,
		Status:       string(l.Status),
		ImageURLs:    l.ImageURLs,
		WishlistedBy: l.WishlistedBy,
		CreatedAt:    l.CreatedAt,
	}
}

func toListingResponses(listings []*domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

type feedResponse struct {
	Ready    bool              `json:"ready"`
	Listings []listingResponse `json:"listings"`
}

func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	session := h.manager.Session(r.Context(), UserIDFromContext(r.Context()))
	respond(w, http.StatusOK, feedResponse{
		Ready:    session.Ready(),
		Listings: toListingResponses(session.Visible()),
	})
}

type filtersRequest struct {
	MinPrice   *float64 `json:"min_price"`
	MaxPrice   *float64 `json:"max_price"`
	Categories []string `json:"categories"`
	Conditions []string `json:"conditions"`
	Regions    []string `json:"regions"`
}

func (h *FeedHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	session := h.manager.Session(r.Context(), UserIDFromContext(r.Context()))
	session.SetCriteria(feed.NewCriteria(req.MinPrice, req.MaxPrice, req.Categories, req.Conditions, req.Regions))

	respond(w, http.StatusOK, feedResponse{
		Ready:    session.Ready(),
		Listings: toListingResponses(session.Visible()),
	})
}

func (h *FeedHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	session := h.manager.Session(r.Context(), UserIDFromContext(r.Context()))
	session.ResetCriteria()
	respond(w, http.StatusOK, feedResponse{
		Ready:    session.Ready(),
		Listings: toListingResponses(session.Visible()),
	})
}

type consumeRequest struct {
	Decision string `json:"decision"`
}

type consumeResponse struct {
	Consumed listingResponse `json:"consumed"`
}

func (h *FeedHandler) Consume(w http.ResponseWriter, r *http.Request) {
	var req consumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	session := h.manager.Session(r.Context(), UserIDFromContext(r.Context()))
	listing, err := session.Consume(feed.Decision(req.Decision))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if h.metrics != nil {
		h.metrics.FeedConsumesTotal.WithLabelValues(req.Decision).Inc()
		if feed.Decision(req.Decision) == feed.DecisionLike {
			h.metrics.WishlistAddsTotal.Inc()
		}
	}
	respond(w, http.StatusOK, consumeResponse{Consumed: toListingResponse(listing)})
}

type undoResponse struct {
	Restored listingResponse `json:"restored"`
}

func (h *FeedHandler) Undo(w http.ResponseWriter, r *http.Request) {
	session := h.manager.Session(r.Context(), UserIDFromContext(r.Context()))
	listing, err := session.Undo()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if h.metrics != nil {
		h.metrics.FeedUndosTotal.Inc()
	}
	respond(w, http.StatusOK, undoResponse{Restored: toListingResponse(listing)})
}
