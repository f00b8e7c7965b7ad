package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hortaviva/community-garden/internal/model"
)

// ErrUserNotFound is returned when a user id or email matches no
// document.
var ErrUserNotFound = notFound("user")

// ErrEmailExists is returned when a user email is already registered.
var ErrEmailExists = alreadyExists("user email")

// UserStore carries the fields accepted when creating an account. The
// password must already be hashed by the caller.
type UserStore struct {
	Name         string
	Email        string
	PasswordHash string
	Cellphone    string
}

// UserUpdate carries the optional fields of a partial account update.
// PasswordHash, when set, must already be hashed.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Cellphone    *string
}

// UserRepo encapsulates queries on the users collection.
type UserRepo struct {
	coll *mongo.Collection
}

// NewUserRepo constructs a UserRepo on the given database.
func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection("users")}
}

// Show fetches a user by id.
func (r *UserRepo) Show(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	var u model.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail fetches a user by email for login.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Index lists users with pagination.
func (r *UserRepo) Index(ctx context.Context, page, pageSize int) (model.Page[model.User], error) {
	return findPage[model.User](ctx, r.coll, bson.M{}, page, pageSize, nil)
}

// Store creates an account after checking the email is free.
func (r *UserRepo) Store(ctx context.Context, store UserStore) (*model.User, error) {
	if err := r.mustNotExist(ctx, store.Email); err != nil {
		return nil, err
	}
	u := model.User{
		Name:      store.Name,
		Email:     store.Email,
		Password:  store.PasswordHash,
		Cellphone: store.Cellphone,
		Version:   1,
	}
	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		return nil, err
	}
	return r.Show(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

// Update applies a partial update; an email change re-checks
// uniqueness.
func (r *UserRepo) Update(ctx context.Context, id string, upd UserUpdate) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
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
	if upd.PasswordHash != nil {
		set["password"] = *upd.PasswordHash
	}
	if upd.Cellphone != nil {
		set["cellphone"] = *upd.Cellphone
	}
	if len(set) == 0 {
		return r.Show(ctx, id)
	}
	res := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return r.Show(ctx, id)
}

// Delete removes an account by id.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) mustNotExist(ctx context.Context, email string) error {
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return ErrEmailExists
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}
