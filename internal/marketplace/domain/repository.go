package domain

import "context"

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindBySeller(ctx context.Context, sellerID string) ([]*Listing, error)
	FindActive(ctx context.Context) ([]*Listing, error)
	SetStatus(ctx context.Context, id string, status ListingStatus) error
	AdjustWishlistedBy(ctx context.Context, id string, delta int) error
}

// PreferenceRepository persists a user's dislike and wishlist state.
// Implementations must create the backing wishlist record on first addition.
type PreferenceRepository interface {
	GetDisliked(ctx context.Context, userID string) ([]string, error)
	SetDisliked(ctx context.Context, userID string, listing *Listing) error
	RemoveDisliked(ctx context.Context, userID, listingID string) error
	GetWishlist(ctx context.Context, userID string) ([]string, error)
	AddToWishlist(ctx context.Context, userID, listingID string) error
	RemoveFromWishlist(ctx context.Context, userID, listingID string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
	SetProfileImageURL(ctx context.Context, id, url string) error
}

// Storage uploads a binary blob and returns its public URL.
type Storage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// EventPublisher emits marketplace events for downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event interface{}) error
}
