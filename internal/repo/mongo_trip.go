package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/truck-tracker/internal/domain"
)

// mongoTripRepo is the MongoDB implementation of TripRepo.
// Each trip is one document in the collection; _id is an ObjectID.
type mongoTripRepo struct {
	coll *mongo.Collection
}

// NewMongoTripRepo constructs a TripRepo backed by the given collection.
// The collection handle is passed in rather than looked up globally so tests
// can hand over a mock deployment's collection.
func NewMongoTripRepo(coll *mongo.Collection) TripRepo {
	return &mongoTripRepo{coll: coll}
}

// EnsureMongoIndexes creates the indexes the list query relies on.
// Creating an index that already exists is a no-op on the server.
func EnsureMongoIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: fieldCreatedAt, Value: -1}}},
		{Keys: bson.D{{Key: fieldUserID, Value: 1}, {Key: fieldCreatedAt, Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("repo.EnsureMongoIndexes: %w", err)
	}
	return nil
}

// Create upserts on a fresh ObjectID so that $currentDate can stamp createdAt
// with the server's clock; a plain insert would have to send a client time.
func (r *mongoTripRepo) Create(ctx context.Context, trip domain.Trip) (string, error) {
	id := primitive.NewObjectID()
	update := bson.M{
		"$setOnInsert": fieldsFromTrip(trip, mongoTime),
		"$currentDate": bson.M{fieldCreatedAt: true},
	}

	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("repo.MongoTripRepo.Create: %w", err)
	}
	return id.Hex(), nil
}

// List returns trips ordered by createdAt descending.
func (r *mongoTripRepo) List(ctx context.Context, owner string) ([]domain.Trip, error) {
	filter := bson.M{}
	if owner != "" {
		filter[fieldUserID] = owner
	}
	opts := options.Find().SetSort(bson.D{{Key: fieldCreatedAt, Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("repo.MongoTripRepo.List: %w", err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repo.MongoTripRepo.List: decode: %w", err)
	}

	trips := make([]domain.Trip, 0, len(docs))
	for _, doc := range docs {
		trips = append(trips, tripFromDocument(doc))
	}
	return trips, nil
}

// GetByID retrieves a trip by its document id.
func (r *mongoTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	var doc bson.M
	err := r.coll.FindOne(ctx, idFilter(id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.GetByID: %w", domain.ErrNotFound)
		}
		return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.GetByID: %w", err)
	}
	return tripFromDocument(doc), nil
}

// Update applies $set with only the fields present in the patch.
func (r *mongoTripRepo) Update(ctx context.Context, id string, patch domain.TripPatch) error {
	fields := fieldsFromPatch(patch, mongoTime)
	if len(fields) == 0 {
		// $set with an empty document is rejected by the server.
		if _, err := r.GetByID(ctx, id); err != nil {
			return fmt.Errorf("repo.MongoTripRepo.Update: %w", err)
		}
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, idFilter(id), bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("repo.MongoTripRepo.Update: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("repo.MongoTripRepo.Update: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes a trip document.
func (r *mongoTripRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("repo.MongoTripRepo.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("repo.MongoTripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// idFilter matches ObjectID ids written by Create, and falls back to a plain
// string _id for documents imported with their own ids.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

func tripFromDocument(doc bson.M) domain.Trip {
	var id string
	switch v := doc["_id"].(type) {
	case primitive.ObjectID:
		id = v.Hex()
	default:
		id = toString(v)
	}
	return tripFromFields(id, doc)
}

// mongoTime stores times as BSON dates, which have millisecond precision.
func mongoTime(t time.Time) any {
	return primitive.NewDateTimeFromTime(t)
}
