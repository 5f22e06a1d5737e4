package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

const listingColumns = `
	id::text, title, description, image_url, location, country,
	type_of_art, price, owner_id::text, created_at, updated_at`

// Create needs no second write: an artist's owned set is derived from listings.owner_id.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	query := `
		INSERT INTO listings (
			title, description, image_url, location, country, type_of_art, price, owner_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + listingColumns

	row := r.pool.QueryRow(ctx, query,
		listing.Title,
		listing.Description,
		listing.ImageURL,
		listing.Location,
		listing.Country,
		listing.TypeOfArt,
		listing.Price,
		listing.OwnerID,
	)
	return scanListing(row)
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrListingNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	return scanListing(row)
}

func (r *ListingRepository) List(ctx context.Context, input repository.ListListingsInput) ([]*domain.Listing, error) {
	var (
		args  []any
		where []string
	)

	if input.TypeOfArt != "" {
		args = append(args, input.TypeOfArt)
		where = append(where, fmt.Sprintf("type_of_art = $%d", len(args)))
	}
	if input.IDs != nil {
		ids := validUUIDs(input.IDs)
		if len(ids) == 0 {
			return []*domain.Listing{}, nil
		}
		args = append(args, ids)
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}

	query := `SELECT ` + listingColumns + ` FROM listings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	listings := []*domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

func (r *ListingRepository) Update(ctx context.Context, id, ownerID string, patch domain.ListingPatch) (*domain.Listing, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrListingNotFound
	}

	// NULL parameters keep the stored value.
	query := `
		UPDATE listings
		SET    title       = COALESCE($3, title),
		       description = COALESCE($4, description),
		       image_url   = COALESCE($5, image_url),
		       location    = COALESCE($6, location),
		       country     = COALESCE($7, country),
		       type_of_art = COALESCE($8, type_of_art),
		       price       = COALESCE($9, price),
		       updated_at  = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + listingColumns

	row := r.pool.QueryRow(ctx, query,
		id, ownerID,
		patch.Title,
		patch.Description,
		patch.ImageURL,
		patch.Location,
		patch.Country,
		patch.TypeOfArt,
		patch.Price,
	)
	return scanListing(row)
}

// Delete relies on ON DELETE CASCADE to clear saved_listings.
func (r *ListingRepository) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrListingNotFound
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// validUUIDs drops ids that cannot match any row.
func validUUIDs(ids []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(id); err == nil {
			out = append(out, u)
		}
	}
	return out
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.ImageURL, &l.Location, &l.Country,
		&l.TypeOfArt, &l.Price, &l.OwnerID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("scan listing: %w", err)
	}
	return &l, nil
}
