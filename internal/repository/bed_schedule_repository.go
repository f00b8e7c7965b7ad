// This file defines persistence for bed schedule documents. All state
// transitions are expressed as targeted $set writes so the engine can
// check the modified count and fail loudly when a write had no effect.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hortaviva/community-garden/internal/model"
)

// ErrBedScheduleNotFound is returned when a schedule id matches no
// document.
var ErrBedScheduleNotFound = notFound("bed schedule")

// BedScheduleRepo encapsulates queries on the bed_schedules
// collection.
type BedScheduleRepo struct {
	coll *mongo.Collection
}

// NewBedScheduleRepo constructs a BedScheduleRepo on the given
// database.
func NewBedScheduleRepo(db *mongo.Database) *BedScheduleRepo {
	return &BedScheduleRepo{coll: db.Collection("bed_schedules")}
}

// Find fetches a schedule by id.
func (r *BedScheduleRepo) Find(ctx context.Context, id string) (*model.BedSchedules, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrBedScheduleNotFound
	}
	var s model.BedSchedules
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBedScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns the schedules of one (ground, bed label) pair in
// insertion order, paginated.
func (r *BedScheduleRepo) List(ctx context.Context, groundID, bedLabel string, page, pageSize int) (model.Page[model.BedSchedules], error) {
	oid, err := primitive.ObjectIDFromHex(groundID)
	if err != nil {
		// An unparsable ground id matches nothing.
		return model.Page[model.BedSchedules]{Entities: []model.BedSchedules{}}, nil
	}
	filter := bson.M{"ground_id": oid, "bed_label": bedLabel}
	return findPage[model.BedSchedules](ctx, r.coll, filter, page, pageSize, nil)
}

// Insert persists a new schedule document and re-reads it so the
// caller gets the generated id.
func (r *BedScheduleRepo) Insert(ctx context.Context, groundID primitive.ObjectID, bedLabel string,
	intervals []model.ScheduleInterval, current int) (*model.BedSchedules, error) {

	doc := model.BedSchedules{
		GroundID:        groundID,
		BedLabel:        bedLabel,
		Schedules:       intervals,
		CurrentSchedule: &current,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

// Replace overwrites the interval sequence and the current index in
// one write and returns the modified count.
func (r *BedScheduleRepo) Replace(ctx context.Context, id string, intervals []model.ScheduleInterval, current int) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrBedScheduleNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"schedules":        intervals,
		"current_schedule": current,
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Advance stamps the end date of the interval being closed and moves
// current_schedule to next (nil exhausts the sequence), in one write.
func (r *BedScheduleRepo) Advance(ctx context.Context, id string, closing int, closeDate model.Date, next *int) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrBedScheduleNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"current_schedule": next,
		fmt.Sprintf("schedules.%d.end_at", closing): closeDate.String(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// StampEnd rewrites only the end date of the interval at index.
func (r *BedScheduleRepo) StampEnd(ctx context.Context, id string, index int, endAt model.Date) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrBedScheduleNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		fmt.Sprintf("schedules.%d.end_at", index): endAt.String(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes a schedule document and returns the deleted count.
func (r *BedScheduleRepo) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrBedScheduleNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
