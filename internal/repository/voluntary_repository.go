package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hortaviva/community-garden/internal/model"
)

// ErrVoluntaryNotFound is returned when a voluntary id matches no
// document.
var ErrVoluntaryNotFound = notFound("voluntary")

// ErrVoluntaryExists is returned when the person already has an
// assignment on that ground and bed.
var ErrVoluntaryExists = alreadyExists("voluntary")

// VoluntaryStore carries the fields accepted when assigning a person
// to a bed.
type VoluntaryStore struct {
	PeopleID      string
	GroundID      string
	BedLabel      string
	StartAt       model.Date
	IsResponsible bool
}

// VoluntaryUpdate carries the optional fields of a partial update.
type VoluntaryUpdate struct {
	StartAt       *model.Date
	EndAt         *model.Date
	IsResponsible *bool
}

// VoluntaryFilter narrows a voluntary listing. Empty fields match
// everything.
type VoluntaryFilter struct {
	GroundID string
	PeopleID string
	BedLabel string
}

// VoluntaryRepo encapsulates queries on the voluntaries collection.
type VoluntaryRepo struct {
	coll *mongo.Collection
}

// NewVoluntaryRepo constructs a VoluntaryRepo on the given database.
func NewVoluntaryRepo(db *mongo.Database) *VoluntaryRepo {
	return &VoluntaryRepo{coll: db.Collection("voluntaries")}
}

// Show fetches a voluntary by id.
func (r *VoluntaryRepo) Show(ctx context.Context, id string) (*model.Voluntary, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrVoluntaryNotFound
	}
	var v model.Voluntary
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrVoluntaryNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Index lists voluntaries matching the filter, paginated.
func (r *VoluntaryRepo) Index(ctx context.Context, page, pageSize int, filter VoluntaryFilter) (model.Page[model.Voluntary], error) {
	query := bson.M{}
	if filter.GroundID != "" {
		if oid, err := primitive.ObjectIDFromHex(filter.GroundID); err == nil {
			query["ground_id"] = oid
		}
	}
	if filter.PeopleID != "" {
		if oid, err := primitive.ObjectIDFromHex(filter.PeopleID); err == nil {
			query["people_id"] = oid
		}
	}
	if filter.BedLabel != "" {
		query["bed_label"] = filter.BedLabel
	}
	return findPage[model.Voluntary](ctx, r.coll, query, page, pageSize, nil)
}

// Insert persists a new assignment. The caller resolves the person
// (for the denormalized name) and checks the uniqueness rule first.
func (r *VoluntaryRepo) Insert(ctx context.Context, people *model.People, ground *model.Ground, store VoluntaryStore) (*model.Voluntary, error) {
	v := model.Voluntary{
		PeopleName:    people.Name,
		PeopleID:      people.ID,
		GroundID:      ground.ID,
		BedLabel:      store.BedLabel,
		IsResponsible: store.IsResponsible,
		StartAt:       store.StartAt,
	}
	res, err := r.coll.InsertOne(ctx, v)
	if err != nil {
		return nil, err
	}
	return r.Show(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

// Update applies a partial update after the caller validated the date
// ordering.
func (r *VoluntaryRepo) Update(ctx context.Context, id string, upd VoluntaryUpdate) (*model.Voluntary, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrVoluntaryNotFound
	}
	set := bson.M{}
	if upd.StartAt != nil {
		set["start_at"] = *upd.StartAt
	}
	if upd.EndAt != nil {
		set["end_at"] = *upd.EndAt
	}
	if upd.IsResponsible != nil {
		set["is_responsible"] = *upd.IsResponsible
	}
	if len(set) == 0 {
		return r.Show(ctx, id)
	}
	res := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrVoluntaryNotFound
		}
		return nil, err
	}
	return r.Show(ctx, id)
}

// Delete removes an assignment by id.
func (r *VoluntaryRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrVoluntaryNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrVoluntaryNotFound
	}
	return nil
}

// MustNotExist enforces the (people, ground, bed) uniqueness rule.
func (r *VoluntaryRepo) MustNotExist(ctx context.Context, peopleID, groundID primitive.ObjectID, bedLabel string) error {
	err := r.coll.FindOne(ctx, bson.M{
		"people_id": peopleID,
		"ground_id": groundID,
		"bed_label": bedLabel,
	}).Err()
	if err == nil {
		return ErrVoluntaryExists
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}
