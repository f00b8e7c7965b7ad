package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hortaviva/community-garden/internal/model"
)

// ErrPeopleNotFound is returned when a people id matches no document.
var ErrPeopleNotFound = notFound("people")

// ErrPeopleExists is returned when an email is already registered.
var ErrPeopleExists = alreadyExists("people")

// PeopleStore carries the fields accepted when registering a person.
type PeopleStore struct {
	Name      string
	Email     string
	Cellphone string
	BirthDate model.Date
	Address   string
}

// PeopleUpdate carries the optional fields of a partial update.
type PeopleUpdate struct {
	Name      *string
	Email     *string
	Cellphone *string
	BirthDate *model.Date
	Address   *string
}

// PeopleRepo encapsulates queries on the peoples collection.
type PeopleRepo struct {
	coll *mongo.Collection
}

// NewPeopleRepo constructs a PeopleRepo on the given database.
func NewPeopleRepo(db *mongo.Database) *PeopleRepo {
	return &PeopleRepo{coll: db.Collection("peoples")}
}

// Show fetches a person by id.
func (r *PeopleRepo) Show(ctx context.Context, id string) (*model.People, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPeopleNotFound
	}
	var p model.People
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPeopleNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Index lists people with pagination, ordering and text search.
func (r *PeopleRepo) Index(ctx context.Context, page, pageSize int, orderBy []string, search string) (model.Page[model.People], error) {
	filter := bson.M{}
	if search != "" {
		filter["$text"] = bson.M{"$search": search}
	}
	return findPage[model.People](ctx, r.coll, filter, page, pageSize, sortFromOrderBy(orderBy))
}

// Store registers a person after checking the email is free.
func (r *PeopleRepo) Store(ctx context.Context, store PeopleStore) (*model.People, error) {
	if err := r.mustNotExist(ctx, store.Email); err != nil {
		return nil, err
	}
	p := model.People{
		Name:      store.Name,
		Email:     store.Email,
		Cellphone: store.Cellphone,
		BirthDate: store.BirthDate,
		Address:   store.Address,
	}
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return nil, err
	}
	return r.Show(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

// Update applies a partial update; an email change re-checks
// uniqueness.
func (r *PeopleRepo) Update(ctx context.Context, id string, upd PeopleUpdate) (*model.People, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPeopleNotFound
	}
	set := bson.M{}
	if upd.Email != nil {
		if err := r.mustNotExist(ctx, *upd.Email); err != nil {
			return nil, err
		}
		set["email"] = *upd.Email
	}
	if upd.Name != nil {
		set["name"] = *upd.Name
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
			return nil, ErrPeopleNotFound
		}
		return nil, err
	}
	return r.Show(ctx, id)
}

// Delete removes a person by id.
func (r *PeopleRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPeopleNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPeopleNotFound
	}
	return nil
}

func (r *PeopleRepo) mustNotExist(ctx context.Context, email string) error {
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return ErrPeopleExists
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}
