// This file defines the seed catalog repository. Seeds are referenced
// by bed schedules and seed checkouts, so besides CRUD it exposes a
// lightweight existence check for the schedule engine.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hortaviva/community-garden/internal/model"
)

// ErrSeedNotFound is returned when a seed id matches no document.
var ErrSeedNotFound = notFound("seed")

// ErrSeedExists is returned when a seed name is already taken.
var ErrSeedExists = alreadyExists("seed")

// SeedStore carries the fields accepted when registering a seed.
type SeedStore struct {
	Name        string
	Description string
	Amount      int
	SeedType    model.SeedType
}

// SeedUpdate carries the optional fields of a partial seed update.
type SeedUpdate struct {
	Name        *string
	Description *string
	Amount      *int
	SeedType    *model.SeedType
}

// SeedRepo encapsulates queries on the seeds collection.
type SeedRepo struct {
	coll *mongo.Collection
}

// NewSeedRepo constructs a SeedRepo on the given database.
func NewSeedRepo(db *mongo.Database) *SeedRepo {
	return &SeedRepo{coll: db.Collection("seeds")}
}

// Show fetches a seed by id.
func (r *SeedRepo) Show(ctx context.Context, id string) (*model.Seed, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrSeedNotFound
	}
	var s model.Seed
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSeedNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Exists reports whether a seed id resolves, returning ErrSeedNotFound
// when it does not. The schedule engine validates interval seed
// references through this.
func (r *SeedRepo) Exists(ctx context.Context, id string) error {
	_, err := r.Show(ctx, id)
	return err
}

// Index lists seeds with pagination, ordering and text search. When a
// text search yields nothing, it retries with a case-insensitive name
// regex so partial names still match.
func (r *SeedRepo) Index(ctx context.Context, page, pageSize int, orderBy []string, search string) (model.Page[model.Seed], error) {
	filter := bson.M{}
	if search != "" {
		filter["$text"] = bson.M{"$search": search}
	}
	result, err := findPage[model.Seed](ctx, r.coll, filter, page, pageSize, sortFromOrderBy(orderBy))
	if err != nil {
		return result, err
	}
	if len(result.Entities) == 0 && search != "" {
		filter = bson.M{"name": bson.M{"$regex": search, "$options": "i"}}
		return findPage[model.Seed](ctx, r.coll, filter, page, pageSize, sortFromOrderBy(orderBy))
	}
	return result, nil
}

// Store registers a seed after checking the name is free.
func (r *SeedRepo) Store(ctx context.Context, store SeedStore) (*model.Seed, error) {
	if err := r.mustNotExist(ctx, store.Name); err != nil {
		return nil, err
	}
	s := model.Seed{
		Name:        store.Name,
		Description: store.Description,
		Amount:      store.Amount,
		SeedType:    store.SeedType,
	}
	res, err := r.coll.InsertOne(ctx, s)
	if err != nil {
		return nil, err
	}
	return r.Show(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

// Update applies a partial update; a rename re-checks uniqueness.
func (r *SeedRepo) Update(ctx context.Context, id string, upd SeedUpdate) (*model.Seed, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrSeedNotFound
	}
	set := bson.M{}
	if upd.Name != nil {
		if err := r.mustNotExist(ctx, *upd.Name); err != nil {
			return nil, err
		}
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Amount != nil {
		set["amount"] = *upd.Amount
	}
	if upd.SeedType != nil {
		set["seed_type"] = *upd.SeedType
	}
	if len(set) == 0 {
		return r.Show(ctx, id)
	}
	res := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSeedNotFound
		}
		return nil, err
	}
	return r.Show(ctx, id)
}

// Delete removes a seed by id.
func (r *SeedRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrSeedNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrSeedNotFound
	}
	return nil
}

func (r *SeedRepo) mustNotExist(ctx context.Context, name string) error {
	err := r.coll.FindOne(ctx, bson.M{"name": name}).Err()
	if err == nil {
		return ErrSeedExists
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}
