package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

const maxListingPhotos = 10

type PhotoUsecase struct {
	repo    domain.ListingRepository
	storage domain.Storage
	logger  *logger.Logger
}

func NewPhotoUsecase(repo domain.ListingRepository, storage domain.Storage, log *logger.Logger) *PhotoUsecase {
	return &PhotoUsecase{
		repo:    repo,
		storage: storage,
		logger:  log,
	}
}

// AttachPhoto uploads the image and appends its URL to the seller's listing.
func (uc *PhotoUsecase) AttachPhoto(ctx context.Context, listingID, sellerID, filename string, data []byte) (string, error) {
	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return "", err
	}
	if listing.SellerID != sellerID {
		return "", domain.ErrForbidden
	}
	if len(listing.ImageURLs) >= maxListingPhotos {
		return "", fmt.Errorf("%w: photo limit reached", domain.ErrInvalidListingData)
	}

	url, err := uc.storage.Upload(ctx, filename, data)
	if err != nil {
		uc.logger.Error("failed to upload listing photo",
			zap.String("listing_id", listingID), zap.Error(err))
		return "", fmt.Errorf("upload photo: %w", err)
	}

	listing.ImageURLs = append(listing.ImageURLs, url)
	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("failed to attach photo url",
			zap.String("listing_id", listingID), zap.Error(err))
		return "", fmt.Errorf("attach photo: %w", err)
	}

	uc.logger.Info("photo attached", zap.String("listing_id", listingID), zap.String("url", url))
	return url, nil
}
