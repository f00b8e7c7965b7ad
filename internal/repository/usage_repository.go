// This file defines the checkout repositories: volunteers borrowing
// seed stock and tools for their beds. A checkout is "open" while its
// end date is null; opening a second checkout for the same
// (voluntary, item) tuple is a conflict.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hortaviva/community-garden/internal/model"
)

// ErrSeedUsageNotFound is returned when a seed checkout id matches no
// document.
var ErrSeedUsageNotFound = notFound("seed usage")

// ErrSeedUsageExists is returned when the voluntary already has this
// seed checked out.
var ErrSeedUsageExists = alreadyExists("seed usage")

// ErrToolUsageNotFound is returned when a tool checkout id matches no
// document.
var ErrToolUsageNotFound = notFound("tool usage")

// ErrToolUsageExists is returned when the voluntary already has this
// tool checked out.
var ErrToolUsageExists = alreadyExists("tool usage")

// UsageFilter narrows a checkout listing. Empty fields match
// everything; ItemID filters on the seed or tool reference depending
// on the repository.
type UsageFilter struct {
	VoluntaryID string
	ItemID      string
	GroundID    string
	BedLabel    string
}

func (f UsageFilter) query(itemField string) bson.M {
	query := bson.M{}
	if f.VoluntaryID != "" {
		if oid, err := primitive.ObjectIDFromHex(f.VoluntaryID); err == nil {
			query["voluntary_id"] = oid
		}
	}
	if f.ItemID != "" {
		if oid, err := primitive.ObjectIDFromHex(f.ItemID); err == nil {
			query[itemField] = oid
		}
	}
	if f.GroundID != "" {
		if oid, err := primitive.ObjectIDFromHex(f.GroundID); err == nil {
			query["ground_id"] = oid
		}
	}
	if f.BedLabel != "" {
		query["bed_label"] = f.BedLabel
	}
	return query
}

// SeedUsageRepo encapsulates queries on voluntaries_using_seeds.
type SeedUsageRepo struct {
	coll *mongo.Collection
}

// NewSeedUsageRepo constructs a SeedUsageRepo on the given database.
func NewSeedUsageRepo(db *mongo.Database) *SeedUsageRepo {
	return &SeedUsageRepo{coll: db.Collection("voluntaries_using_seeds")}
}

// Show fetches a seed checkout by id.
func (r *SeedUsageRepo) Show(ctx context.Context, id string) (*model.VoluntaryUsingSeed, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrSeedUsageNotFound
	}
	var u model.VoluntaryUsingSeed
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSeedUsageNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Index lists seed checkouts matching the filter, paginated.
func (r *SeedUsageRepo) Index(ctx context.Context, page, pageSize int, filter UsageFilter) (model.Page[model.VoluntaryUsingSeed], error) {
	return findPage[model.VoluntaryUsingSeed](ctx, r.coll, filter.query("seed_id"), page, pageSize, nil)
}

// Start opens a checkout dated today. It fails with
// ErrSeedUsageExists when the voluntary already has an open checkout
// of this seed.
func (r *SeedUsageRepo) Start(ctx context.Context, voluntary *model.Voluntary, seedID primitive.ObjectID) (*model.VoluntaryUsingSeed, error) {
	open := bson.M{
		"voluntary_id": voluntary.ID,
		"ground_id":    voluntary.GroundID,
		"bed_label":    voluntary.BedLabel,
		"seed_id":      seedID,
		"end_at":       nil,
	}
	if err := r.coll.FindOne(ctx, open).Err(); err == nil {
		return nil, ErrSeedUsageExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	u := model.VoluntaryUsingSeed{
		VoluntaryID: voluntary.ID,
		GroundID:    voluntary.GroundID,
		BedLabel:    voluntary.BedLabel,
		SeedID:      seedID,
		StartAt:     model.Today(),
	}
	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		return nil, err
	}
	return r.Show(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

// End stamps today as the checkout's end date.
func (r *SeedUsageRepo) End(ctx context.Context, id string) (*model.VoluntaryUsingSeed, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrSeedUsageNotFound
	}
	res := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"end_at": model.Today()}})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSeedUsageNotFound
		}
		return nil, err
	}
	return r.Show(ctx, id)
}

// Delete removes a seed checkout by id.
func (r *SeedUsageRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrSeedUsageNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrSeedUsageNotFound
	}
	return nil
}

// ToolUsageRepo encapsulates queries on voluntaries_using_tools.
type ToolUsageRepo struct {
	coll *mongo.Collection
}

// NewToolUsageRepo constructs a ToolUsageRepo on the given database.
func NewToolUsageRepo(db *mongo.Database) *ToolUsageRepo {
	return &ToolUsageRepo{coll: db.Collection("voluntaries_using_tools")}
}

// Show fetches a tool checkout by id.
func (r *ToolUsageRepo) Show(ctx context.Context, id string) (*model.VoluntaryUsingTool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrToolUsageNotFound
	}
	var u model.VoluntaryUsingTool
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrToolUsageNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Index lists tool checkouts matching the filter, paginated.
func (r *ToolUsageRepo) Index(ctx context.Context, page, pageSize int, filter UsageFilter) (model.Page[model.VoluntaryUsingTool], error) {
	return findPage[model.VoluntaryUsingTool](ctx, r.coll, filter.query("tool_id"), page, pageSize, nil)
}

// Start opens a checkout dated today, failing when one is already
// open for this voluntary and tool.
func (r *ToolUsageRepo) Start(ctx context.Context, voluntary *model.Voluntary, toolID primitive.ObjectID) (*model.VoluntaryUsingTool, error) {
	open := bson.M{
		"voluntary_id": voluntary.ID,
		"ground_id":    voluntary.GroundID,
		"bed_label":    voluntary.BedLabel,
		"tool_id":      toolID,
		"end_at":       nil,
	}
	if err := r.coll.FindOne(ctx, open).Err(); err == nil {
		return nil, ErrToolUsageExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	u := model.VoluntaryUsingTool{
		VoluntaryID: voluntary.ID,
		GroundID:    voluntary.GroundID,
		BedLabel:    voluntary.BedLabel,
		ToolID:      toolID,
		StartAt:     model.Today(),
	}
	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		return nil, err
	}
	return r.Show(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

// End stamps today as the checkout's end date.
func (r *ToolUsageRepo) End(ctx context.Context, id string) (*model.VoluntaryUsingTool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrToolUsageNotFound
	}
	res := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"end_at": model.Today()}})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrToolUsageNotFound
		}
		return nil, err
	}
	return r.Show(ctx, id)
}

// Delete removes a tool checkout by id.
func (r *ToolUsageRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrToolUsageNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrToolUsageNotFound
	}
	return nil
}
