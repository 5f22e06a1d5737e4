package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ListingRepository struct {
	listings   *mongo.Collection
	identities *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{
		listings:   db.Collection(listingsCollection),
		identities: db.Collection(identitiesCollection),
	}
}

// Create inserts the listing, then pushes its id onto the owner's arts array.
// The two writes are separate single-document operations.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	owner, err := primitive.ObjectIDFromHex(listing.OwnerID)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}

	now := time.Now().UTC()
	doc := listingDocument{
		Title:       listing.Title,
		Description: listing.Description,
		Image:       listing.ImageURL,
		Location:    listing.Location,
		Country:     listing.Country,
		TypeOfArt:   listing.TypeOfArt,
		Price:       listing.Price,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := r.listings.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert listing: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert listing: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid

	if _, err := r.identities.UpdateByID(ctx, owner, bson.M{"$addToSet": bson.M{"arts": oid}}); err != nil {
		return nil, fmt.Errorf("record owned listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	if err := r.listings.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) List(ctx context.Context, input repository.ListListingsInput) ([]*domain.Listing, error) {
	filter := bson.M{}
	if input.TypeOfArt != "" {
		filter["typeOfArt"] = input.TypeOfArt
	}
	if input.IDs != nil {
		ids := objectIDs(input.IDs)
		if len(ids) == 0 {
			return []*domain.Listing{}, nil
		}
		filter["_id"] = bson.M{"$in": ids}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.listings.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []listingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	listings := make([]*domain.Listing, 0, len(docs))
	for i := range docs {
		listings = append(listings, docs[i].toDomain())
	}
	return listings, nil
}

func (r *ListingRepository) Update(ctx context.Context, id, ownerID string, patch domain.ListingPatch) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	setIf := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setIf("title", patch.Title)
	setIf("description", patch.Description)
	setIf("image", patch.ImageURL)
	setIf("location", patch.Location)
	setIf("country", patch.Country)
	setIf("typeOfArt", patch.TypeOfArt)
	if patch.Price != nil {
		set["price"] = *patch.Price
	}

	var doc listingDocument
	err = r.listings.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "owner": owner},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) Delete(ctx context.Context, id, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return domain.ErrListingNotFound
	}

	res, err := r.listings.DeleteOne(ctx, bson.M{"_id": oid, "owner": owner})
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}

	if _, err := r.identities.UpdateByID(ctx, owner, bson.M{"$pull": bson.M{"arts": oid}}); err != nil {
		return fmt.Errorf("drop owned listing: %w", err)
	}
	if _, err := r.identities.UpdateMany(ctx, bson.M{"saved": oid}, bson.M{"$pull": bson.M{"saved": oid}}); err != nil {
		return fmt.Errorf("drop saved listing: %w", err)
	}
	return nil
}
