package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
)

// listingDocument is the MongoDB shape of a Listing. Price stays a string:
// numeric interpretation is a feed-filter concern, not a storage one.
type listingDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	SellerID     string               `bson:"seller_id"`
	Title        string               `bson:"title"`
	Description  string               `bson:"description"`
	Price        string               `bson:"price"`
	Category     string               `bson:"category"`
	Condition    string               `bson:"condition"`
	Region       string               `bson:"region"`
	Status       domain.ListingStatus `bson:"status"`
	ImageURLs    []string             `bson:"image_urls,omitempty"`
	WishlistedBy int                  `bson:"wishlisted_by"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

// dislikeDocument records one dislike together with a snapshot of the
// listing at the time it was dismissed.
type dislikeDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	ListingID  string             `bson:"listing_id"`
	Title      string             `bson:"title"`
	Price      string             `bson:"price"`
	Category   string             `bson:"category"`
	Condition  string             `bson:"condition"`
	Region     string             `bson:"region"`
	SellerID   string             `bson:"seller_id"`
	DislikedAt time.Time          `bson:"disliked_at"`
}

// wishlistDocument is one per user: the user's id is the document key and
// the wishlist is an ordered array of listing ids.
type wishlistDocument struct {
	UserID   string   `bson:"_id"`
	Wishlist []string `bson:"wishlist"`
}

type userDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Email           string             `bson:"email"`
	PasswordHash    string             `bson:"password_hash"`
	Username        string             `bson:"username"`
	FirstName       string             `bson:"first_name"`
	LastName        string             `bson:"last_name"`
	Bio             string             `bson:"bio"`
	Region          string             `bson:"region"`
	ProfileImageURL string             `bson:"profile_image_url"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("toListingDocument: invalid listing id %q: %w", l.ID, err)
		}
	}

	return &listingDocument{
		ID:           docID,
		SellerID:     l.SellerID,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		Category:     l.Category,
		Condition:    l.Condition,
		Region:       l.Region,
		Status:       l.Status,
		ImageURLs:    l.ImageURLs,
		WishlistedBy: l.WishlistedBy,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	return &domain.Listing{
		ID:           d.ID.Hex(),
		SellerID:     d.SellerID,
		Title:        d.Title,
		Description:  d.Description,
		Price:        d.Price,
		Category:     d.Category,
		Condition:    d.Condition,
		Region:       d.Region,
		Status:       d.Status,
		ImageURLs:    d.ImageURLs,
		WishlistedBy: d.WishlistedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	out := make([]*domain.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDomainListing(d))
	}
	return out
}

func toDomainUser(d *userDocument) *domain.User {
	if d == nil {
		return nil
	}
	return &domain.User{
		ID:              d.ID.Hex(),
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		Username:        d.Username,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Bio:             d.Bio,
		Region:          d.Region,
		ProfileImageURL: d.ProfileImageURL,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
