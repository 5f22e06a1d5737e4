package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/repository"
)

// ImageHost stores image bytes and returns a durable public URL.
type ImageHost interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Geocoder turns a free-text location into coordinates and a static map URL.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*domain.GeoPoint, error)
}

type RelayUsecase struct {
	listings repository.ListingRepository
	images   ImageHost
	geocoder Geocoder
}

func NewRelayUsecase(listings repository.ListingRepository, images ImageHost, geocoder Geocoder) *RelayUsecase {
	return &RelayUsecase{listings: listings, images: images, geocoder: geocoder}
}

func (u *RelayUsecase) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if r == nil {
		return "", domain.NewValidationError("file", "No file")
	}
	url, err := u.images.Upload(ctx, filename, r)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

// Map geocodes the location of a listing.
func (u *RelayUsecase) Map(ctx context.Context, listingID string) (*domain.GeoPoint, error) {
	listing, err := u.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}

	query := LocationQuery(listing)
	if query == "" {
		return nil, domain.NewValidationError("location", "listing has no location")
	}

	point, err := u.geocoder.Geocode(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}
	return point, nil
}

// LocationQuery joins location and country the way the geocoder expects: "Paris, France".
func LocationQuery(l *domain.Listing) string {
	loc := strings.TrimSpace(l.Location)
	country := strings.TrimSpace(l.Country)
	switch {
	case loc == "":
		return country
	case country == "":
		return loc
	}
	return loc + ", " + country
}
