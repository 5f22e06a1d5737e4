package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IdentityRepository struct {
	pool *pgxpool.Pool
}

func NewIdentityRepository(pool *pgxpool.Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

// Owned and saved ids are derived from listings and saved_listings in the same statement.
const identityColumns = `
	i.id::text, i.email, i.password_hash, i.role, i.first_name, i.last_name,
	i.phone, i.city, i.profile_pic, i.created_at, i.updated_at,
	ARRAY(SELECT l.id::text FROM listings l WHERE l.owner_id = i.id ORDER BY l.created_at),
	ARRAY(SELECT s.listing_id::text FROM saved_listings s WHERE s.identity_id = i.id ORDER BY s.created_at)`

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	query := `
		WITH i AS (
			INSERT INTO identities (email, password_hash, role, first_name, last_name, phone, city, profile_pic)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT ` + identityColumns + ` FROM i`

	row := r.pool.QueryRow(ctx, query,
		identity.Email,
		identity.PasswordHash,
		identity.Role,
		identity.FirstName,
		identity.LastName,
		identity.Phone,
		identity.City,
		identity.ProfilePic,
	)

	created, err := scanIdentity(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities i WHERE i.email = $1`, email)
	return scanIdentity(row)
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrIdentityNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities i WHERE i.id = $1`, id)
	return scanIdentity(row)
}

func (r *IdentityRepository) SaveListing(ctx context.Context, identityID, listingID string) error {
	if _, err := uuid.Parse(listingID); err != nil {
		return domain.ErrListingNotFound
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO saved_listings (identity_id, listing_id) VALUES ($1, $2)
		ON CONFLICT (identity_id, listing_id) DO NOTHING`,
		identityID, listingID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
			return domain.ErrListingNotFound
		}
		return fmt.Errorf("save listing: %w", err)
	}
	return nil
}

func (r *IdentityRepository) UnsaveListing(ctx context.Context, identityID, listingID string) error {
	if _, err := uuid.Parse(listingID); err != nil {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`DELETE FROM saved_listings WHERE identity_id = $1 AND listing_id = $2`,
		identityID, listingID,
	)
	if err != nil {
		return fmt.Errorf("unsave listing: %w", err)
	}
	return nil
}

func scanIdentity(row rowScanner) (*domain.Identity, error) {
	var i domain.Identity
	err := row.Scan(
		&i.ID, &i.Email, &i.PasswordHash, &i.Role, &i.FirstName, &i.LastName,
		&i.Phone, &i.City, &i.ProfilePic, &i.CreatedAt, &i.UpdatedAt,
		&i.OwnedListingIDs, &i.SavedListingIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("scan identity: %w", err)
	}
	return &i, nil
}
