// This file defines the ground repository: CRUD over the grounds
// collection plus the bed sub-document operations the schedule engine
// depends on. Beds live embedded in their ground and are only ever
// mutated through UpdateBed, which targets one bed by label with an
// array filter so the whole write is a single document update.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hortaviva/community-garden/internal/model"
)

// ErrGroundNotFound is returned when a ground id matches no document.
var ErrGroundNotFound = notFound("ground")

// ErrBedNotFound is returned when a bed label matches no bed inside a
// ground.
var ErrBedNotFound = notFound("bed")

// GroundStore carries the fields accepted when registering a ground.
// BedsCount beds are created with it, labeled "1".."N".
type GroundStore struct {
	Address     string
	Width       int
	Length      int
	Description string
	BedsCount   int
	OwnerID     *primitive.ObjectID
}

// GroundUpdate carries the optional fields of a partial ground update.
// Nil pointers are left untouched.
type GroundUpdate struct {
	Address     *string
	Width       *int
	Length      *int
	Description *string
	OwnerID     *primitive.ObjectID
}

// BedUpdate is a partial update of one bed sub-document. Every field
// is tri-state (absent / set / cleared) so callers can clear the
// nullable references independently of flipping the free flag.
type BedUpdate struct {
	Active            Opt[bool]
	Free              Opt[bool]
	SeedID            Opt[primitive.ObjectID]
	BedSchedulesID    Opt[primitive.ObjectID]
	ResponsibleUserID Opt[primitive.ObjectID]
	EndAt             Opt[model.Date]
}

// document renders the update as a $set document with keys prefixed to
// address the matched bed through the "bed" array filter.
func (u BedUpdate) document() bson.M {
	doc := bson.M{}
	putOpt(doc, "beds.$[bed].active", u.Active)
	putOpt(doc, "beds.$[bed].free", u.Free)
	putOpt(doc, "beds.$[bed].seed_id", u.SeedID)
	putOpt(doc, "beds.$[bed].bed_schedules_id", u.BedSchedulesID)
	putOpt(doc, "beds.$[bed].responsible_user_id", u.ResponsibleUserID)
	putOpt(doc, "beds.$[bed].end_at", u.EndAt)
	return doc
}

// GroundRepo encapsulates queries on the grounds collection. Deleting
// a ground also removes its bed schedules, so the repo holds the
// database handle rather than a single collection.
type GroundRepo struct {
	db *mongo.Database
}

// NewGroundRepo constructs a GroundRepo on the given database.
func NewGroundRepo(db *mongo.Database) *GroundRepo {
	return &GroundRepo{db: db}
}

func (r *GroundRepo) coll() *mongo.Collection {
	return r.db.Collection("grounds")
}

// Show fetches a ground by id. BedsCount is derived from the embedded
// beds array.
func (r *GroundRepo) Show(ctx context.Context, id string) (*model.Ground, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrGroundNotFound
	}
	var g model.Ground
	if err := r.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroundNotFound
		}
		return nil, err
	}
	g.BedsCount = len(g.Beds)
	return &g, nil
}

// Index lists grounds with pagination, optional ordering and optional
// text search over the indexed fields.
func (r *GroundRepo) Index(ctx context.Context, page, pageSize int, orderBy []string, search string) (model.Page[model.Ground], error) {
	filter := bson.M{}
	if search != "" {
		filter["$text"] = bson.M{"$search": search}
	}
	result, err := findPage[model.Ground](ctx, r.coll(), filter, page, pageSize, sortFromOrderBy(orderBy))
	if err != nil {
		return result, err
	}
	for i := range result.Entities {
		result.Entities[i].BedsCount = len(result.Entities[i].Beds)
	}
	return result, nil
}

// Store registers a new ground and creates its beds, labeled "1" up to
// the requested beds count. All beds start active and free.
func (r *GroundRepo) Store(ctx context.Context, store GroundStore) (*model.Ground, error) {
	beds := make([]model.Bed, store.BedsCount)
	for i := range beds {
		beds[i] = model.Bed{Label: strconv.Itoa(i + 1), Active: true, Free: true}
	}
	g := model.Ground{
		Address:     store.Address,
		Width:       store.Width,
		Length:      store.Length,
		Description: store.Description,
		OwnerID:     store.OwnerID,
		Active:      true,
		Beds:        beds,
	}
	res, err := r.coll().InsertOne(ctx, g)
	if err != nil {
		return nil, err
	}
	return r.Show(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

// Update applies a partial update and returns the updated ground.
func (r *GroundRepo) Update(ctx context.Context, id string, upd GroundUpdate) (*model.Ground, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrGroundNotFound
	}
	set := bson.M{}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.Width != nil {
		set["width"] = *upd.Width
	}
	if upd.Length != nil {
		set["length"] = *upd.Length
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.OwnerID != nil {
		set["owner_id"] = *upd.OwnerID
	}
	if len(set) == 0 {
		return r.Show(ctx, id)
	}
	res := r.coll().FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroundNotFound
		}
		return nil, err
	}
	return r.Show(ctx, id)
}

// Delete removes a ground and every bed schedule that referenced it.
func (r *GroundRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrGroundNotFound
	}
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if _, err := r.db.Collection("bed_schedules").DeleteMany(ctx, bson.M{"ground_id": oid}); err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrGroundNotFound
	}
	return nil
}

// FindBed scans the ground's bed sequence for the given label.
func (r *GroundRepo) FindBed(g *model.Ground, label string) (*model.Bed, error) {
	for i := range g.Beds {
		if g.Beds[i].Label == label {
			return &g.Beds[i], nil
		}
	}
	return nil, ErrBedNotFound
}

// UpdateBed applies a partial update to exactly the bed matching label
// inside the ground matching groundID, in one document write. It
// returns the modified count; synchronization-critical callers must
// treat 0 as failure, since 0 means the ground or bed was missing or
// nothing changed.
func (r *GroundRepo) UpdateBed(ctx context.Context, groundID, label string, upd BedUpdate) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(groundID)
	if err != nil {
		return 0, ErrGroundNotFound
	}
	doc := upd.document()
	if len(doc) == 0 {
		return 0, fmt.Errorf("empty bed update for ground %s bed %s", groundID, label)
	}
	res, err := r.coll().UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": doc},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"bed.label": label}},
		}),
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
