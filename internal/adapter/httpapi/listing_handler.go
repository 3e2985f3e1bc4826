package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swipebay/marketplace-service/internal/marketplace/usecase"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
	"github.com/swipebay/marketplace-service/internal/platform/metrics"
)

const maxPhotoUploadBytes = 10 << 20

type ListingHandler struct {
	listings *usecase.ListingUsecase
	photos   *usecase.PhotoUsecase
	metrics  *metrics.Manager
	logger   *logger.Logger
}

func NewListingHandler(listings *usecase.ListingUsecase, photos *usecase.PhotoUsecase, m *metrics.Manager, log *logger.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, photos: photos, metrics: m, logger: log}
}

type createListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Region      string   `json:"region"`
	ImageURLs   []string `json:"image_urls"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	listing, err := h.listings.CreateListing(r.Context(), UserIDFromContext(r.Context()), usecase.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
		Region:      req.Region,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ListingsCreatedTotal.Inc()
	}
	respond(w, http.StatusCreated, toListingResponse(listing))
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.GetListingByID(r.Context(), chi.URLParam(r, "listingID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, toListingResponse(listing))
}

type updateListingRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	listing, err := h.listings.UpdateListing(r.Context(), chi.URLParam(r, "listingID"), UserIDFromContext(r.Context()), usecase.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.listings.DeleteListing(r.Context(), chi.URLParam(r, "listingID"), UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (h *ListingHandler) MarkAsSold(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.MarkAsSold(r.Context(), chi.URLParam(r, "listingID"), UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ListingsSoldTotal.Inc()
	}
	respond(w, http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.ListBySeller(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"listings": toListingResponses(listings)})
}

func (h *ListingHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "photo file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoUploadBytes))
	if err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "failed to read photo"})
		return
	}

	url, err := h.photos.AttachPhoto(r.Context(), chi.URLParam(r, "listingID"), UserIDFromContext(r.Context()), header.Filename, data)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, map[string]string{"url": url})
}
