package domain

import "time"

type ListingStatus string

const (
	StatusActive   ListingStatus = "active"
	StatusSold     ListingStatus = "sold"
	StatusInactive ListingStatus = "inactive"
)

// Listing is a single item offered for sale. The ID is assigned by the
// repository on creation and stays empty until then; a listing with an empty
// ID must never enter a preference set or a feed.
//
// Price is kept as the raw string entered by the seller. Numeric
// interpretation happens at filter time; see feed.Criteria.
type Listing struct {
	ID           string
	SellerID     string
	Title        string
	Description  string
	Price        string
	Category     string
	Condition    string
	Region       string
	Status       ListingStatus
	ImageURLs    []string
	WishlistedBy int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// User is a marketplace account with its public profile fields.
type User struct {
	ID              string
	Email           string
	PasswordHash    string
	Username        string
	FirstName       string
	LastName        string
	Bio             string
	Region          string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProfileUpdate carries the editable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Region    *string
}
