package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/mailer"
	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

// PreferenceService wraps a PreferenceRepository with marketplace side
// effects: the wishlisted_by counter on the listing and a notification
// email to the seller. Persistence failures are returned as is; the
// side effects are best effort and only logged.
type PreferenceService struct {
	inner    domain.PreferenceRepository
	listings domain.ListingRepository
	users    domain.UserRepository
	mail     mailer.Mailer
	logger   *logger.Logger
}

func NewPreferenceService(
	inner domain.PreferenceRepository,
	listings domain.ListingRepository,
	users domain.UserRepository,
	mail mailer.Mailer,
	log *logger.Logger,
) *PreferenceService {
	return &PreferenceService{
		inner:    inner,
		listings: listings,
		users:    users,
		mail:     mail,
		logger:   log,
	}
}

var _ domain.PreferenceRepository = (*PreferenceService)(nil)

func (s *PreferenceService) GetDisliked(ctx context.Context, userID string) ([]string, error) {
	return s.inner.GetDisliked(ctx, userID)
}

func (s *PreferenceService) SetDisliked(ctx context.Context, userID string, listing *domain.Listing) error {
	return s.inner.SetDisliked(ctx, userID, listing)
}

func (s *PreferenceService) RemoveDisliked(ctx context.Context, userID, listingID string) error {
	return s.inner.RemoveDisliked(ctx, userID, listingID)
}

func (s *PreferenceService) GetWishlist(ctx context.Context, userID string) ([]string, error) {
	return s.inner.GetWishlist(ctx, userID)
}

func (s *PreferenceService) AddToWishlist(ctx context.Context, userID, listingID string) error {
	if err := s.inner.AddToWishlist(ctx, userID, listingID); err != nil {
		return err
	}

	if err := s.listings.AdjustWishlistedBy(ctx, listingID, 1); err != nil {
		s.logger.Warn("failed to bump wishlisted_by",
			zap.String("listing_id", listingID), zap.Error(err))
	}
	s.notifySeller(ctx, listingID)
	return nil
}

func (s *PreferenceService) RemoveFromWishlist(ctx context.Context, userID, listingID string) error {
	if err := s.inner.RemoveFromWishlist(ctx, userID, listingID); err != nil {
		return err
	}

	if err := s.listings.AdjustWishlistedBy(ctx, listingID, -1); err != nil {
		s.logger.Warn("failed to drop wishlisted_by",
			zap.String("listing_id", listingID), zap.Error(err))
	}
	return nil
}

func (s *PreferenceService) notifySeller(ctx context.Context, listingID string) {
	if s.mail == nil {
		return
	}
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		s.logger.Warn("seller notification skipped, listing lookup failed",
			zap.String("listing_id", listingID), zap.Error(err))
		return
	}
	seller, err := s.users.FindByID(ctx, listing.SellerID)
	if err != nil {
		s.logger.Warn("seller notification skipped, seller lookup failed",
			zap.String("seller_id", listing.SellerID), zap.Error(err))
		return
	}
	if err := s.mail.SendListingWishlistedEmail(seller.Email, listing.Title); err != nil {
		s.logger.Warn("failed to send wishlist email",
			zap.String("seller_id", seller.ID), zap.Error(err))
	}
}
