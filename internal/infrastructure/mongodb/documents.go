package mongodb

import (
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type identityDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Email        string               `bson:"email"`
	PasswordHash string               `bson:"password"`
	Role         string               `bson:"role"`
	FirstName    string               `bson:"firstname"`
	LastName     string               `bson:"lastname"`
	Phone        string               `bson:"phone,omitempty"`
	City         string               `bson:"city,omitempty"`
	ProfilePic   string               `bson:"profilePic,omitempty"`
	Arts         []primitive.ObjectID `bson:"arts"`
	Saved        []primitive.ObjectID `bson:"saved"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

func (d *identityDocument) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:              d.ID.Hex(),
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		Role:            domain.Role(d.Role),
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Phone:           d.Phone,
		City:            d.City,
		ProfilePic:      d.ProfilePic,
		OwnedListingIDs: hexes(d.Arts),
		SavedListingIDs: hexes(d.Saved),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	Location    string             `bson:"location,omitempty"`
	Country     string             `bson:"country,omitempty"`
	TypeOfArt   string             `bson:"typeOfArt"`
	Price       float64            `bson:"price"`
	Owner       primitive.ObjectID `bson:"owner"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *listingDocument) toDomain() *domain.Listing {
	return &domain.Listing{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		ImageURL:    d.Image,
		Location:    d.Location,
		Country:     d.Country,
		TypeOfArt:   d.TypeOfArt,
		Price:       d.Price,
		OwnerID:     d.Owner.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

// objectIDs drops values that are not valid ObjectIDs; they cannot match any document.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}
