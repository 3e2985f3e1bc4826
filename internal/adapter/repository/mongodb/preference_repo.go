package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

// PreferenceRepository persists per-user dislike and wishlist state.
// Dislikes are one document per (user, listing) with a listing snapshot;
// wishlists are a single per-user document holding an ordered id array.
type PreferenceRepository struct {
	dislikes  *mongo.Collection
	wishlists *mongo.Collection
	logger    *logger.Logger
}

func NewPreferenceRepository(db *mongo.Database, log *logger.Logger) *PreferenceRepository {
	// A unique index on (user_id, listing_id) keeps repeated dislikes of the
	// same listing idempotent:
	// db.dislikes.createIndex({user_id: 1, listing_id: 1}, {unique: true})
	return &PreferenceRepository{
		dislikes:  db.Collection("dislikes"),
		wishlists: db.Collection("wishlists"),
		logger:    log,
	}
}

func (r *PreferenceRepository) GetDisliked(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	opts := options.Find().SetSort(bson.D{{Key: "disliked_at", Value: 1}})
	cursor, err := r.dislikes.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		r.logger.Error("PreferenceRepository.GetDisliked: Find failed",
			zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*dislikeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ListingID)
	}
	return ids, nil
}

func (r *PreferenceRepository) SetDisliked(ctx context.Context, userID string, listing *domain.Listing) error {
	if userID == "" || listing == nil || listing.ID == "" {
		return errors.New("userID and listing id cannot be empty")
	}

	doc := &dislikeDocument{
		UserID:     userID,
		ListingID:  listing.ID,
		Title:      listing.Title,
		Price:      listing.Price,
		Category:   listing.Category,
		Condition:  listing.Condition,
		Region:     listing.Region,
		SellerID:   listing.SellerID,
		DislikedAt: time.Now().UTC(),
	}
	_, err := r.dislikes.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil // already disliked, nothing to do
		}
		r.logger.Error("PreferenceRepository.SetDisliked: InsertOne failed",
			zap.String("user_id", userID), zap.String("listing_id", listing.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *PreferenceRepository) RemoveDisliked(ctx context.Context, userID, listingID string) error {
	if userID == "" || listingID == "" {
		return errors.New("userID and listingID cannot be empty")
	}
	_, err := r.dislikes.DeleteOne(ctx, bson.M{"user_id": userID, "listing_id": listingID})
	if err != nil {
		r.logger.Error("PreferenceRepository.RemoveDisliked: DeleteOne failed",
			zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
	}
	return err
}

func (r *PreferenceRepository) GetWishlist(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	var doc wishlistDocument
	err := r.wishlists.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // no wishlist yet
		}
		r.logger.Error("PreferenceRepository.GetWishlist: FindOne failed",
			zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return doc.Wishlist, nil
}

// AddToWishlist appends the id to the user's wishlist array, creating the
// backing document on first use. $addToSet keeps repeated adds idempotent.
func (r *PreferenceRepository) AddToWishlist(ctx context.Context, userID, listingID string) error {
	if userID == "" || listingID == "" {
		return errors.New("userID and listingID cannot be empty")
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.wishlists.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"wishlist": listingID}},
		opts,
	)
	if err != nil {
		r.logger.Error("PreferenceRepository.AddToWishlist: UpdateOne failed",
			zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
	}
	return err
}

func (r *PreferenceRepository) RemoveFromWishlist(ctx context.Context, userID, listingID string) error {
	if userID == "" || listingID == "" {
		return errors.New("userID and listingID cannot be empty")
	}
	_, err := r.wishlists.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"wishlist": listingID}},
	)
	if err != nil {
		r.logger.Error("PreferenceRepository.RemoveFromWishlist: UpdateOne failed",
			zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
	}
	return err
}
