package usecase

import "github.com/ErlanBelekov/art-marketplace/internal/domain"

// AuthorizeOwner succeeds only when identity owns listing.
func AuthorizeOwner(identity *domain.Identity, listing *domain.Listing) error {
	if identity == nil || listing == nil || listing.OwnerID != identity.ID {
		return domain.ErrForbidden
	}
	return nil
}

// RequireRole rejects identities of any other role with domain.ErrForbidden.
func RequireRole(identity *domain.Identity, role domain.Role) error {
	if identity == nil {
		return domain.ErrUnauthorized
	}
	if identity.Role != role {
		return domain.ErrForbidden
	}
	return nil
}
