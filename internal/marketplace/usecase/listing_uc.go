package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/mailer"
	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

const (
	SubjectListingCreated = "listing.created"
	SubjectListingSold    = "listing.sold"
	SubjectListingDeleted = "listing.deleted"
)

// ListingEvent is the payload published on listing lifecycle subjects.
type ListingEvent struct {
	ListingID string `json:"listing_id"`
	SellerID  string `json:"seller_id"`
	Title     string `json:"title"`
}

type ListingUsecase struct {
	repo      domain.ListingRepository
	publisher domain.EventPublisher
	users     domain.UserRepository
	mail      mailer.Mailer
	logger    *logger.Logger
}

func NewListingUsecase(repo domain.ListingRepository, publisher domain.EventPublisher, users domain.UserRepository, mail mailer.Mailer, log *logger.Logger) *ListingUsecase {
	return &ListingUsecase{
		repo:      repo,
		publisher: publisher,
		users:     users,
		mail:      mail,
		logger:    log,
	}
}

type CreateListingInput struct {
	Title       string
	Description string
	Price       string
	Category    string
	Condition   string
	Region      string
	ImageURLs   []string
}

// CreateListing inserts the listing for the seller. Image URLs are expected
// to already be uploaded; see PhotoUsecase for attaching photos afterwards.
func (uc *ListingUsecase) CreateListing(ctx context.Context, sellerID string, input CreateListingInput) (*domain.Listing, error) {
	if sellerID == "" {
		return nil, domain.ErrForbidden
	}
	if input.Title == "" || input.Price == "" {
		return nil, domain.ErrInvalidListingData
	}

	listing := &domain.Listing{
		SellerID:    sellerID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Condition:   input.Condition,
		Region:      input.Region,
		Status:      domain.StatusActive,
		ImageURLs:   input.ImageURLs,
	}
	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("failed to create listing", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, fmt.Errorf("create listing: %w", err)
	}

	if uc.publisher != nil {
		event := ListingEvent{ListingID: listing.ID, SellerID: sellerID, Title: listing.Title}
		if err := uc.publisher.Publish(ctx, SubjectListingCreated, event); err != nil {
			uc.logger.Warn("failed to publish listing.created",
				zap.String("listing_id", listing.ID), zap.Error(err))
		}
	}

	uc.logger.Info("listing created", zap.String("listing_id", listing.ID), zap.String("seller_id", sellerID))
	return listing, nil
}

type UpdateListingInput struct {
	Title       *string
	Description *string
	Price       *string
}

// UpdateListing edits the seller's own listing. Nil fields are left as is.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, id, sellerID string, input UpdateListingInput) (*domain.Listing, error) {
	listing, err := uc.ownedListing(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		listing.Title = *input.Title
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Price != nil {
		listing.Price = *input.Price
	}

	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("failed to update listing", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return listing, nil
}

func (uc *ListingUsecase) DeleteListing(ctx context.Context, id, sellerID string) error {
	listing, err := uc.ownedListing(ctx, id, sellerID)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return fmt.Errorf("delete listing: %w", err)
	}

	if uc.publisher != nil {
		event := ListingEvent{ListingID: id, SellerID: sellerID, Title: listing.Title}
		if err := uc.publisher.Publish(ctx, SubjectListingDeleted, event); err != nil {
			uc.logger.Warn("failed to publish listing.deleted", zap.String("listing_id", id), zap.Error(err))
		}
	}
	return nil
}

// MarkAsSold flips the listing out of the browse feed.
func (uc *ListingUsecase) MarkAsSold(ctx context.Context, id, sellerID string) (*domain.Listing, error) {
	listing, err := uc.ownedListing(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.SetStatus(ctx, id, domain.StatusSold); err != nil {
		uc.logger.Error("failed to mark listing sold", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("mark listing sold: %w", err)
	}
	listing.Status = domain.StatusSold

	if uc.publisher != nil {
		event := ListingEvent{ListingID: id, SellerID: sellerID, Title: listing.Title}
		if err := uc.publisher.Publish(ctx, SubjectListingSold, event); err != nil {
			uc.logger.Warn("failed to publish listing.sold", zap.String("listing_id", id), zap.Error(err))
		}
	}
	uc.notifySold(ctx, listing)
	return listing, nil
}

// notifySold emails the seller a confirmation. Best effort, like the
// wishlist notification.
func (uc *ListingUsecase) notifySold(ctx context.Context, listing *domain.Listing) {
	if uc.mail == nil || uc.users == nil {
		return
	}
	seller, err := uc.users.FindByID(ctx, listing.SellerID)
	if err != nil {
		uc.logger.Warn("sold notification skipped, seller lookup failed",
			zap.String("seller_id", listing.SellerID), zap.Error(err))
		return
	}
	if err := uc.mail.SendListingSoldEmail(seller.Email, listing.Title); err != nil {
		uc.logger.Warn("failed to send sold email",
			zap.String("seller_id", seller.ID), zap.Error(err))
	}
}

func (uc *ListingUsecase) GetListingByID(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (uc *ListingUsecase) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Listing, error) {
	return uc.repo.FindBySeller(ctx, sellerID)
}

func (uc *ListingUsecase) ownedListing(ctx context.Context, id, sellerID string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	if listing.SellerID != sellerID {
		uc.logger.Warn("forbidden listing access",
			zap.String("listing_id", id),
			zap.String("owner_id", listing.SellerID),
			zap.String("user_id", sellerID))
		return nil, domain.ErrForbidden
	}
	return listing, nil
}
