package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/metrics"
	"github.com/ErlanBelekov/art-marketplace/internal/repository"
)

type ListingUsecase struct {
	listings   repository.ListingRepository
	identities repository.IdentityRepository
}

func NewListingUsecase(listings repository.ListingRepository, identities repository.IdentityRepository) *ListingUsecase {
	return &ListingUsecase{listings: listings, identities: identities}
}

type CreateListingInput struct {
	Title       string
	Description string
	ImageURL    string
	Location    string
	Country     string
	TypeOfArt   string
	Price       float64
}

func (in CreateListingInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return domain.NewValidationError("title", "is required")
	case strings.TrimSpace(in.Description) == "":
		return domain.NewValidationError("description", "is required")
	case strings.TrimSpace(in.TypeOfArt) == "":
		return domain.NewValidationError("typeOfArt", "is required")
	case strings.TrimSpace(in.ImageURL) == "":
		return domain.NewValidationError("image", "is required")
	case math.IsNaN(in.Price) || math.IsInf(in.Price, 0):
		return domain.NewValidationError("price", "must be a finite number")
	case in.Price < 0:
		return domain.NewValidationError("price", "must not be negative")
	}
	return nil
}

func validatePatch(p domain.ListingPatch) error {
	blank := func(s *string) bool { return s != nil && strings.TrimSpace(*s) == "" }
	switch {
	case blank(p.Title):
		return domain.NewValidationError("title", "must not be empty")
	case blank(p.Description):
		return domain.NewValidationError("description", "must not be empty")
	case blank(p.TypeOfArt):
		return domain.NewValidationError("typeOfArt", "must not be empty")
	case blank(p.ImageURL):
		return domain.NewValidationError("image", "must not be empty")
	case p.Price != nil && (math.IsNaN(*p.Price) || math.IsInf(*p.Price, 0)):
		return domain.NewValidationError("price", "must be a finite number")
	case p.Price != nil && *p.Price < 0:
		return domain.NewValidationError("price", "must not be negative")
	}
	return nil
}

// Create stores a new listing owned by the calling artist.
func (u *ListingUsecase) Create(ctx context.Context, owner *domain.Identity, input CreateListingInput) (*domain.Listing, error) {
	if err := RequireRole(owner, domain.RoleArtist); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	created, err := u.listings.Create(ctx, &domain.Listing{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Location:    strings.TrimSpace(input.Location),
		Country:     strings.TrimSpace(input.Country),
		TypeOfArt:   strings.TrimSpace(input.TypeOfArt),
		Price:       input.Price,
		OwnerID:     owner.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	metrics.ListingMutationsTotal.WithLabelValues("create").Inc()
	return created, nil
}

// loadOwned returns the listing only when requester owns it.
// An absent listing is reported before ownership is considered.
func (u *ListingUsecase) loadOwned(ctx context.Context, id string, requester *domain.Identity) (*domain.Listing, error) {
	listing, err := u.listings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if err := AuthorizeOwner(requester, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (u *ListingUsecase) Update(ctx context.Context, id string, requester *domain.Identity, patch domain.ListingPatch) (*domain.Listing, error) {
	listing, err := u.loadOwned(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return listing, nil
	}

	updated, err := u.listings.Update(ctx, id, requester.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}

	metrics.ListingMutationsTotal.WithLabelValues("update").Inc()
	return updated, nil
}

// Delete removes the listing and returns the record as it was before removal.
func (u *ListingUsecase) Delete(ctx context.Context, id string, requester *domain.Identity) (*domain.Listing, error) {
	listing, err := u.loadOwned(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	if err := u.listings.Delete(ctx, id, requester.ID); err != nil {
		return nil, fmt.Errorf("delete listing: %w", err)
	}

	metrics.ListingMutationsTotal.WithLabelValues("delete").Inc()
	return listing, nil
}

// CheckOwner reports nil when requester owns listing id.
func (u *ListingUsecase) CheckOwner(ctx context.Context, id string, requester *domain.Identity) error {
	_, err := u.loadOwned(ctx, id, requester)
	return err
}

func (u *ListingUsecase) Get(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := u.listings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return listing, nil
}

type ListingDetail struct {
	Listing *domain.Listing
	Owner   *domain.Identity // nil if the owner record is gone
}

// Show returns a listing together with its owner.
func (u *ListingUsecase) Show(ctx context.Context, id string) (*ListingDetail, error) {
	listing, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := u.identities.FindByID(ctx, listing.OwnerID)
	if err != nil && !errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, fmt.Errorf("find owner: %w", err)
	}
	return &ListingDetail{Listing: listing, Owner: owner}, nil
}

type ListListingsInput struct {
	TypeOfArt string
}

func (u *ListingUsecase) List(ctx context.Context, input ListListingsInput) ([]*domain.Listing, error) {
	listings, err := u.listings.List(ctx, repository.ListListingsInput{TypeOfArt: strings.TrimSpace(input.TypeOfArt)})
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

// Owned returns the listings of an artist.
func (u *ListingUsecase) Owned(ctx context.Context, identity *domain.Identity) ([]*domain.Listing, error) {
	return u.byIDs(ctx, identity.OwnedListingIDs)
}

// Saved returns the listings a user has saved.
func (u *ListingUsecase) Saved(ctx context.Context, identity *domain.Identity) ([]*domain.Listing, error) {
	return u.byIDs(ctx, identity.SavedListingIDs)
}

func (u *ListingUsecase) byIDs(ctx context.Context, ids []string) ([]*domain.Listing, error) {
	if ids == nil {
		ids = []string{}
	}
	listings, err := u.listings.List(ctx, repository.ListListingsInput{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

// Save adds a listing to a user's saved set and returns the resulting set.
func (u *ListingUsecase) Save(ctx context.Context, identity *domain.Identity, listingID string) ([]string, error) {
	if err := RequireRole(identity, domain.RoleUser); err != nil {
		return nil, err
	}
	if _, err := u.Get(ctx, listingID); err != nil {
		return nil, err
	}
	if err := u.identities.SaveListing(ctx, identity.ID, listingID); err != nil {
		return nil, fmt.Errorf("save listing: %w", err)
	}
	return u.savedIDs(ctx, identity.ID)
}

// Unsave is idempotent; unsaving a listing that no longer exists is not an error.
func (u *ListingUsecase) Unsave(ctx context.Context, identity *domain.Identity, listingID string) ([]string, error) {
	if err := RequireRole(identity, domain.RoleUser); err != nil {
		return nil, err
	}
	if err := u.identities.UnsaveListing(ctx, identity.ID, listingID); err != nil {
		return nil, fmt.Errorf("unsave listing: %w", err)
	}
	return u.savedIDs(ctx, identity.ID)
}

func (u *ListingUsecase) savedIDs(ctx context.Context, identityID string) ([]string, error) {
	fresh, err := u.identities.FindByID(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("find identity: %w", err)
	}
	if fresh.SavedListingIDs == nil {
		return []string{}, nil
	}
	return fresh.SavedListingIDs, nil
}
