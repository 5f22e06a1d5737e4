package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type IdentityRepository struct {
	collection *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{collection: db.Collection(identitiesCollection)}
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	now := time.Now().UTC()
	doc := identityDocument{
		Email:        identity.Email,
		PasswordHash: identity.PasswordHash,
		Role:         string(identity.Role),
		FirstName:    identity.FirstName,
		LastName:     identity.LastName,
		Phone:        identity.Phone,
		City:         identity.City,
		ProfilePic:   identity.ProfilePic,
		Arts:         []primitive.ObjectID{},
		Saved:        []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert identity: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	var doc identityDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *IdentityRepository) SaveListing(ctx context.Context, identityID, listingID string) error {
	return r.updateSaved(ctx, identityID, listingID, "$addToSet")
}

func (r *IdentityRepository) UnsaveListing(ctx context.Context, identityID, listingID string) error {
	if _, err := primitive.ObjectIDFromHex(listingID); err != nil {
		return nil
	}
	return r.updateSaved(ctx, identityID, listingID, "$pull")
}

func (r *IdentityRepository) updateSaved(ctx context.Context, identityID, listingID, op string) error {
	oid, err := primitive.ObjectIDFromHex(identityID)
	if err != nil {
		return domain.ErrIdentityNotFound
	}
	lid, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return domain.ErrListingNotFound
	}

	res, err := r.collection.UpdateByID(ctx, oid, bson.M{
		op:     bson.M{"saved": lid},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("update saved listings: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}
