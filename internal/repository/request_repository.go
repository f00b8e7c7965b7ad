// This file defines the contact-record repositories: land donation
// offers and volunteering requests. Both are plain CRUD collections
// reviewed by managers out of band.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hortaviva/community-garden/internal/model"
)

// ErrGroundDonateNotFound is returned when a donation offer id
// matches no document.
var ErrGroundDonateNotFound = notFound("ground donate")

// ErrVoluntaryRequestNotFound is returned when a volunteering request
// id matches no document.
var ErrVoluntaryRequestNotFound = notFound("voluntary request")

// GroundDonateUpdate carries the partial fields of a donation offer
// update. Nil means leave unchanged.
type GroundDonateUpdate struct {
	Name          *string
	Email         *string
	Cellphone     *string
	BirthDate     *model.Date
	Address       *string
	GroundAddress *string
}

// VoluntaryRequestUpdate carries the partial fields of a volunteering
// request update. Nil means leave unchanged.
type VoluntaryRequestUpdate struct {
	Name      *string
	Email     *string
	Cellphone *string
	BirthDate *model.Date
	Address   *string
}

// GroundDonateRepo encapsulates queries on the ground_donates
// collection.
type GroundDonateRepo struct {
	coll *mongo.Collection
}

// NewGroundDonateRepo constructs a GroundDonateRepo on the given
// database.
func NewGroundDonateRepo(db *mongo.Database) *GroundDonateRepo {
	return &GroundDonateRepo{coll: db.Collection("ground_donates")}
}

// Show fetches a donation offer by id.
func (r *GroundDonateRepo) Show(ctx context.Context, id string) (*model.GroundDonate, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrGroundDonateNotFound
	}
	var d model.GroundDonate
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroundDonateNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Index lists donation offers, paginated.
func (r *GroundDonateRepo) Index(ctx context.Context, page, pageSize int) (model.Page[model.GroundDonate], error) {
	return findPage[model.GroundDonate](ctx, r.coll, bson.M{}, page, pageSize, nil)
}

// Store registers a donation offer.
func (r *GroundDonateRepo) Store(ctx context.Context, d model.GroundDonate) (*model.GroundDonate, error) {
	d.ID = primitive.NilObjectID
	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		return nil, err
	}
	return r.Show(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

// Update applies a partial update and returns the updated offer.
func (r *GroundDonateRepo) Update(ctx context.Context, id string, upd GroundDonateUpdate) (*model.GroundDonate, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrGroundDonateNotFound
	}
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Cellphone != nil {
		set["cellphone"] = *upd.Cellphone
	}
	if upd.BirthDate != nil {
		set["birth_date"] = *upd.BirthDate
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.GroundAddress != nil {
		set["ground_address"] = *upd.GroundAddress
	}
	if len(set) == 0 {
		return r.Show(ctx, id)
	}
	res := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroundDonateNotFound
		}
		return nil, err
	}
	return r.Show(ctx, id)
}

// Delete removes a donation offer by id.
func (r *GroundDonateRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrGroundDonateNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrGroundDonateNotFound
	}
	return nil
}

// VoluntaryRequestRepo encapsulates queries on the voluntary_requests
// collection.
type VoluntaryRequestRepo struct {
	coll *mongo.Collection
}

// NewVoluntaryRequestRepo constructs a VoluntaryRequestRepo on the
// given database.
func NewVoluntaryRequestRepo(db *mongo.Database) *VoluntaryRequestRepo {
	return &VoluntaryRequestRepo{coll: db.Collection("voluntary_requests")}
}

// Show fetches a volunteering request by id.
func (r *VoluntaryRequestRepo) Show(ctx context.Context, id string) (*model.VoluntaryRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrVoluntaryRequestNotFound
	}
	var v model.VoluntaryRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrVoluntaryRequestNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Index lists volunteering requests, paginated.
func (r *VoluntaryRequestRepo) Index(ctx context.Context, page, pageSize int) (model.Page[model.VoluntaryRequest], error) {
	return findPage[model.VoluntaryRequest](ctx, r.coll, bson.M{}, page, pageSize, nil)
}

// Store registers a volunteering request.
func (r *VoluntaryRequestRepo) Store(ctx context.Context, v model.VoluntaryRequest) (*model.VoluntaryRequest, error) {
	v.ID = primitive.NilObjectID
	res, err := r.coll.InsertOne(ctx, v)
	if err != nil {
		return nil, err
	}
	return r.Show(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

// Update applies a partial update and returns the updated request.
func (r *VoluntaryRequestRepo) Update(ctx context.Context, id string, upd VoluntaryRequestUpdate) (*model.VoluntaryRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrVoluntaryRequestNotFound
	}
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Cellphone != nil {
		set["cellphone"] = *upd.Cellphone
	}
	if upd.BirthDate != nil {
		set["birth_date"] = *upd.BirthDate
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if len(set) == 0 {
		return r.Show(ctx, id)
	}
	res := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrVoluntaryRequestNotFound
		}
		return nil, err
	}
	return r.Show(ctx, id)
}

// Delete removes a volunteering request by id.
func (r *VoluntaryRequestRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrVoluntaryRequestNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrVoluntaryRequestNotFound
	}
	return nil
}
