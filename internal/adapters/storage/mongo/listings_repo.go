package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pet-adoption-marketplace/internal/domain/listings"
)

const (
	listingsCollection = "pet_listings"

	// maxCASAttempts acota el loop de compare-and-swap en Update.
	maxCASAttempts = 8
)

type ListingsRepo struct {
	coll *mongo.Collection
}

func NewListingsRepo(db *mongo.Database) *ListingsRepo {
	return &ListingsRepo{coll: db.Collection(listingsCollection)}
}

// EnsureIndexes crea los índices que usan las consultas del repo.
func (r *ListingsRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "adoption_requests.id", Value: 1}}},
		{Keys: bson.D{{Key: "adoption_requests.requester_email", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create listing indexes: %w", err)
	}
	return nil
}

func (r *ListingsRepo) Create(ctx context.Context, l listings.Listing) error {
	_, err := r.coll.InsertOne(ctx, toListingDoc(l))
	return err
}

func (r *ListingsRepo) GetByID(ctx context.Context, id string) (listings.Listing, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ListingsRepo) findOne(ctx context.Context, filter bson.M) (listings.Listing, error) {
	var doc listingDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return listings.Listing{}, listings.ErrListingNotFound
	}
	if err != nil {
		return listings.Listing{}, err
	}
	return doc.toDomain(), nil
}

func (r *ListingsRepo) ListByStatus(ctx context.Context, statuses ...listings.ListingStatus) ([]listings.Listing, error) {
	ss := make([]string, 0, len(statuses))
	for _, s := range statuses {
		ss = append(ss, string(s))
	}
	return r.find(ctx, bson.M{"status": bson.M{"$in": ss}})
}

func (r *ListingsRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]listings.Listing, error) {
	return r.find(ctx, bson.M{"owner": ownerEmail})
}

func (r *ListingsRepo) ListAll(ctx context.Context) ([]listings.Listing, error) {
	return r.find(ctx, bson.M{})
}

func (r *ListingsRepo) find(ctx context.Context, filter bson.M) ([]listings.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []listingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]listings.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ListingsRepo) FindByRequestID(ctx context.Context, requestID string) (listings.Listing, error) {
	return r.findOne(ctx, bson.M{"adoption_requests.id": requestID})
}

// Update es un compare-and-swap sobre el documento entero usando version.
// Si otro escritor ganó, se relee y fn se vuelve a aplicar sobre el estado nuevo.
func (r *ListingsRepo) Update(ctx context.Context, id string, fn listings.MutateFunc) (listings.Listing, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		cur, err := r.GetByID(ctx, id)
		if err != nil {
			return listings.Listing{}, err
		}

		prevVersion := cur.Version
		if err := fn(&cur); err != nil {
			return listings.Listing{}, err
		}
		cur.ID = id
		cur.Version = prevVersion + 1

		res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id, "version": prevVersion}, toListingDoc(cur))
		if err != nil {
			return listings.Listing{}, err
		}
		if res.MatchedCount == 1 {
			return cur, nil
		}
		if err := ctx.Err(); err != nil {
			return listings.Listing{}, err
		}
	}
	return listings.Listing{}, listings.ErrConcurrentUpdate
}

func (r *ListingsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return listings.ErrListingNotFound
	}
	return nil
}

// ListRequestsByRequester aplana las solicitudes del requester con un pipeline de agregación.
func (r *ListingsRepo) ListRequestsByRequester(ctx context.Context, requesterEmail string) ([]listings.RequesterRequest, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"adoption_requests.requester_email": requesterEmail}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$unwind", Value: "$adoption_requests"}},
		{{Key: "$match", Value: bson.M{"adoption_requests.requester_email": requesterEmail}}},
		{{Key: "$project", Value: bson.M{
			"_id":          0,
			"request_id":   "$adoption_requests.id",
			"status":       "$adoption_requests.status",
			"request_date": "$adoption_requests.request_date",
			"updated_at":   "$adoption_requests.updated_at",
			"pet": bson.M{
				"_id":           "$_id",
				"name":          "$name",
				"image":         "$image",
				"owner_contact": "$owner_contact",
			},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []requesterDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]listings.RequesterRequest, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
