package repository

import (
	"context"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
)

// IdentityRepository stores users and artists in one keyspace; emails are unique across both roles.
type IdentityRepository interface {
	// Create returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// FindByID populates OwnedListingIDs and SavedListingIDs.
	FindByID(ctx context.Context, id string) (*domain.Identity, error)

	// SaveListing and UnsaveListing have set semantics and are idempotent.
	SaveListing(ctx context.Context, identityID, listingID string) error
	UnsaveListing(ctx context.Context, identityID, listingID string) error
}
