package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrTokenInvalid is returned when a refresh token hash is unknown,
// revoked or expired.
var ErrTokenInvalid = errors.New("refresh token invalid")

// refreshToken is the persisted shape of a refresh token. Only the
// SHA-256 hash of the raw token is stored.
type refreshToken struct {
	UserID    primitive.ObjectID `bson:"user_id"`
	TokenHash string             `bson:"token_hash"`
	ExpiresAt time.Time          `bson:"expires_at"`
	RevokedAt *time.Time         `bson:"revoked_at"`
}

// TokenRepo persists and validates refresh tokens.
type TokenRepo struct {
	coll *mongo.Collection
}

// NewTokenRepo constructs a TokenRepo on the given database.
func NewTokenRepo(db *mongo.Database) *TokenRepo {
	return &TokenRepo{coll: db.Collection("refresh_tokens")}
}

// StoreRefresh inserts a refresh token hash for a user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID primitive.ObjectID, tokenHash string, exp time.Time) error {
	_, err := r.coll.InsertOne(ctx, refreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: exp,
	})
	return err
}

// ValidateRefresh returns the owning user id if a non-revoked,
// non-expired token with this hash exists.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (primitive.ObjectID, error) {
	var t refreshToken
	if err := r.coll.FindOne(ctx, bson.M{"token_hash": tokenHash}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, ErrTokenInvalid
		}
		return primitive.NilObjectID, err
	}
	if t.RevokedAt != nil || time.Now().UTC().After(t.ExpiresAt) {
		return primitive.NilObjectID, ErrTokenInvalid
	}
	return t.UserID, nil
}

// RevokeByHash marks one token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	now := time.Now().UTC()
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"token_hash": tokenHash, "revoked_at": nil},
		bson.M{"$set": bson.M{"revoked_at": now}})
	return err
}

// RevokeAllForUser revokes every active token of one user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "revoked_at": nil},
		bson.M{"$set": bson.M{"revoked_at": now}})
	return err
}
