package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hortaviva/community-garden/internal/model"
)

// ErrToolNotFound is returned when a tool id matches no document.
var ErrToolNotFound = notFound("tool")

// ErrToolExists is returned when a tool name is already taken.
var ErrToolExists = alreadyExists("tool")

// ToolStore carries the fields accepted when registering a tool.
type ToolStore struct {
	Name        string
	Description string
	Amount      int
}

// ToolUpdate carries the optional fields of a partial tool update.
type ToolUpdate struct {
	Name        *string
	Description *string
	Amount      *int
}

// ToolRepo encapsulates queries on the tools collection.
type ToolRepo struct {
	coll *mongo.Collection
}

// NewToolRepo constructs a ToolRepo on the given database.
func NewToolRepo(db *mongo.Database) *ToolRepo {
	return &ToolRepo{coll: db.Collection("tools")}
}

// Show fetches a tool by id.
func (r *ToolRepo) Show(ctx context.Context, id string) (*model.Tool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrToolNotFound
	}
	var t model.Tool
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrToolNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Exists reports whether a tool id resolves.
func (r *ToolRepo) Exists(ctx context.Context, id string) error {
	_, err := r.Show(ctx, id)
	return err
}

// Index lists tools with pagination, ordering and text search, with
// the same regex fallback as the seed catalog.
func (r *ToolRepo) Index(ctx context.Context, page, pageSize int, orderBy []string, search string) (model.Page[model.Tool], error) {
	filter := bson.M{}
	if search != "" {
		filter["$text"] = bson.M{"$search": search}
	}
	result, err := findPage[model.Tool](ctx, r.coll, filter, page, pageSize, sortFromOrderBy(orderBy))
	if err != nil {
		return result, err
	}
	if len(result.Entities) == 0 && search != "" {
		filter = bson.M{"name": bson.M{"$regex": search, "$options": "i"}}
		return findPage[model.Tool](ctx, r.coll, filter, page, pageSize, sortFromOrderBy(orderBy))
	}
	return result, nil
}

// Store registers a tool after checking the name is free.
func (r *ToolRepo) Store(ctx context.Context, store ToolStore) (*model.Tool, error) {
	if err := r.mustNotExist(ctx, store.Name); err != nil {
		return nil, err
	}
	t := model.Tool{Name: store.Name, Description: store.Description, Amount: store.Amount}
	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return nil, err
	}
	return r.Show(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

// Update applies a partial update; a rename re-checks uniqueness.
func (r *ToolRepo) Update(ctx context.Context, id string, upd ToolUpdate) (*model.Tool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrToolNotFound
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
	if len(set) == 0 {
		return r.Show(ctx, id)
	}
	res := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrToolNotFound
		}
		return nil, err
	}
	return r.Show(ctx, id)
}

// Delete removes a tool by id.
func (r *ToolRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrToolNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrToolNotFound
	}
	return nil
}

func (r *ToolRepo) mustNotExist(ctx context.Context, name string) error {
	err := r.coll.FindOne(ctx, bson.M{"name": name}).Err()
	if err == nil {
		return ErrToolExists
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}
