package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/marketplace/usecase"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

type ProfileHandler struct {
	profiles *usecase.ProfileUsecase
	logger   *logger.Logger
}

func NewProfileHandler(profiles *usecase.ProfileUsecase, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: log}
}

type profileResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username,omitempty"`
	FirstName       string    `json:"first_name,omitempty"`
	LastName        string    `json:"last_name,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Region          string    `json:"region,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toProfileResponse(u *domain.User) profileResponse {
	return profileResponse{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Bio:             u.Bio,
		Region:          u.Region,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
	}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.profiles.GetProfile(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, toProfileResponse(user))
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Region    *string `json:"region"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.profiles.UpdateProfile(r.Context(), UserIDFromContext(r.Context()), domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Region:    req.Region,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, toProfileResponse(user))
}

func (h *ProfileHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoUploadBytes))
	if err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "failed to read image"})
		return
	}

	url, err := h.profiles.SetProfileImage(r.Context(), UserIDFromContext(r.Context()), header.Filename, data)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, map[string]string{"url": url})
}
