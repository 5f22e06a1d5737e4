package repository

import (
	"context"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
)

type ListListingsInput struct {
	TypeOfArt string // empty = all
	IDs       []string // nil = no id filter; empty non-nil = match nothing
}

type ListingRepository interface {
	// Create persists the listing and records its id on the owner's owned set.
	Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error)
	// GetByID returns domain.ErrListingNotFound for absent or malformed ids.
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	List(ctx context.Context, input ListListingsInput) ([]*domain.Listing, error)

	// Update and Delete only match a listing still owned by ownerID; otherwise
	// they return domain.ErrListingNotFound. Ownership is checked by the caller first.
	Update(ctx context.Context, id, ownerID string, patch domain.ListingPatch) (*domain.Listing, error)
	// Delete also drops the id from the owner's owned set and from every saved set.
	Delete(ctx context.Context, id, ownerID string) error
}
