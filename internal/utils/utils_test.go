package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hortaviva/community-garden/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	at, err := NewAccessToken(secret, "64f1b2c3d4e5f60718293a4b", 15)
	require.NoError(t, err)
	assert.NotEmpty(t, at.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "64f1b2c3d4e5f60718293a4b", claims["sub"])

	_, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	r1, err := NewRefreshToken(7)
	require.NoError(t, err)
	r2, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, r1.Raw, 96)
	assert.NotEqual(t, r1.Raw, r2.Raw)
	assert.Equal(t, HashRefreshRaw(r1.Raw), HashRefreshRaw(r1.Raw))
	assert.NotEqual(t, HashRefreshRaw(r1.Raw), HashRefreshRaw(r2.Raw))
	assert.Len(t, HashRefreshRaw(r1.Raw), 64) // sha256 hex
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))
	assert.False(t, VerifyPassword("not-a-hash", "hunter2"))
}

func TestMustBePositive(t *testing.T) {
	assert.NoError(t, MustBePositive(1))
	assert.ErrorIs(t, MustBePositive(0), ErrNotPositive)
	assert.ErrorIs(t, MustBePositive(-3), ErrNotPositive)
}

func TestMustRepresentAnAdult(t *testing.T) {
	now := time.Now().UTC()

	adult := model.Date{Time: now.AddDate(-30, 0, 0)}
	assert.NoError(t, MustRepresentAnAdult(adult))

	justEighteen := model.Date{Time: now.AddDate(-18, 0, -1)}
	assert.NoError(t, MustRepresentAnAdult(justEighteen))

	minor := model.Date{Time: now.AddDate(-17, 0, 0)}
	assert.ErrorIs(t, MustRepresentAnAdult(minor), ErrUnderage)
}
