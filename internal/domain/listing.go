package domain

import (
	"errors"
	"time"
)

var ErrListingNotFound = errors.New("listing not found")

type Listing struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	Location    string
	Country     string
	TypeOfArt   string
	Price       float64
	OwnerID     string // set at creation, never reassigned

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListingPatch carries a partial update. Nil fields are left untouched.
type ListingPatch struct {
	Title       *string
	Description *string
	ImageURL    *string
	Location    *string
	Country     *string
	TypeOfArt   *string
	Price       *float64
}

func (p ListingPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.ImageURL == nil &&
		p.Location == nil && p.Country == nil && p.TypeOfArt == nil && p.Price == nil
}

// GeoPoint is a resolved listing location.
type GeoPoint struct {
	Lat    float64
	Lon    float64
	MapURL string
}
