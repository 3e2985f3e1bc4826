package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

func TestPreferenceService_AddToWishlist(t *testing.T) {
	ctx := context.Background()
	listing := &domain.Listing{ID: "l1", SellerID: "seller-1", Title: "Bike"}
	seller := &domain.User{ID: "seller-1", Email: "seller@swipebay.kz"}

	t.Run("BumpsCounterAndNotifiesSeller", func(t *testing.T) {
		inner := new(MockPreferenceRepository)
		listings := new(MockListingRepository)
		users := new(MockUserRepository)
		mail := new(MockMailer)
		svc := NewPreferenceService(inner, listings, users, mail, logger.NewNop())

		inner.On("AddToWishlist", ctx, "buyer-1", "l1").Return(nil).Once()
		listings.On("AdjustWishlistedBy", ctx, "l1", 1).Return(nil).Once()
		listings.On("FindByID", ctx, "l1").Return(listing, nil).Once()
		users.On("FindByID", ctx, "seller-1").Return(seller, nil).Once()
		mail.On("SendListingWishlistedEmail", seller.Email, "Bike").Return(nil).Once()

		require.NoError(t, svc.AddToWishlist(ctx, "buyer-1", "l1"))

		inner.AssertExpectations(t)
		listings.AssertExpectations(t)
		users.AssertExpectations(t)
		mail.AssertExpectations(t)
	})

	t.Run("PersistenceFailureSkipsSideEffects", func(t *testing.T) {
		inner := new(MockPreferenceRepository)
		listings := new(MockListingRepository)
		mail := new(MockMailer)
		svc := NewPreferenceService(inner, listings, new(MockUserRepository), mail, logger.NewNop())

		inner.On("AddToWishlist", ctx, "buyer-1", "l1").
			Return(errors.New("mongo down")).Once()

		err := svc.AddToWishlist(ctx, "buyer-1", "l1")
		assert.Error(t, err)
		listings.AssertNotCalled(t, "AdjustWishlistedBy", mock.Anything, mock.Anything, mock.Anything)
		mail.AssertNotCalled(t, "SendListingWishlistedEmail", mock.Anything, mock.Anything)
	})

	t.Run("CounterFailureStillNotifies", func(t *testing.T) {
		inner := new(MockPreferenceRepository)
		listings := new(MockListingRepository)
		users := new(MockUserRepository)
		mail := new(MockMailer)
		svc := NewPreferenceService(inner, listings, users, mail, logger.NewNop())

		inner.On("AddToWishlist", ctx, "buyer-1", "l1").Return(nil).Once()
		listings.On("AdjustWishlistedBy", ctx, "l1", 1).
			Return(errors.New("write conflict")).Once()
		listings.On("FindByID", ctx, "l1").Return(listing, nil).Once()
		users.On("FindByID", ctx, "seller-1").Return(seller, nil).Once()
		mail.On("SendListingWishlistedEmail", seller.Email, "Bike").Return(nil).Once()

		assert.NoError(t, svc.AddToWishlist(ctx, "buyer-1", "l1"))
		mail.AssertExpectations(t)
	})

	t.Run("MailFailureIsSwallowed", func(t *testing.T) {
		inner := new(MockPreferenceRepository)
		listings := new(MockListingRepository)
		users := new(MockUserRepository)
		mail := new(MockMailer)
		svc := NewPreferenceService(inner, listings, users, mail, logger.NewNop())

		inner.On("AddToWishlist", ctx, "buyer-1", "l1").Return(nil).Once()
		listings.On("AdjustWishlistedBy", ctx, "l1", 1).Return(nil).Once()
		listings.On("FindByID", ctx, "l1").Return(listing, nil).Once()
		users.On("FindByID", ctx, "seller-1").Return(seller, nil).Once()
		mail.On("SendListingWishlistedEmail", seller.Email, "Bike").
			Return(errors.New("smtp timeout")).Once()

		assert.NoError(t, svc.AddToWishlist(ctx, "buyer-1", "l1"))
	})

	t.Run("NilMailerMeansNoLookups", func(t *testing.T) {
		inner := new(MockPreferenceRepository)
		listings := new(MockListingRepository)
		users := new(MockUserRepository)
		svc := NewPreferenceService(inner, listings, users, nil, logger.NewNop())

		inner.On("AddToWishlist", ctx, "buyer-1", "l1").Return(nil).Once()
		listings.On("AdjustWishlistedBy", ctx, "l1", 1).Return(nil).Once()

		assert.NoError(t, svc.AddToWishlist(ctx, "buyer-1", "l1"))
		users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestPreferenceService_RemoveFromWishlist(t *testing.T) {
	ctx := context.Background()

	inner := new(MockPreferenceRepository)
	listings := new(MockListingRepository)
	svc := NewPreferenceService(inner, listings, new(MockUserRepository), new(MockMailer), logger.NewNop())

	inner.On("RemoveFromWishlist", ctx, "buyer-1", "l1").Return(nil).Once()
	listings.On("AdjustWishlistedBy", ctx, "l1", -1).Return(nil).Once()

	require.NoError(t, svc.RemoveFromWishlist(ctx, "buyer-1", "l1"))
	inner.AssertExpectations(t)
	listings.AssertExpectations(t)
}

func TestPreferenceService_DelegatesReads(t *testing.T) {
	ctx := context.Background()

	inner := new(MockPreferenceRepository)
	svc := NewPreferenceService(inner, new(MockListingRepository), new(MockUserRepository), nil, logger.NewNop())

	inner.On("GetWishlist", ctx, "u1").Return([]string{"a", "b"}, nil).Once()
	inner.On("GetDisliked", ctx, "u1").Return([]string{"c"}, nil).Once()

	wishlist, err := svc.GetWishlist(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, wishlist)

	disliked, err := svc.GetDisliked(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, disliked)
}
