package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTStore_CreateAndGet(t *testing.T) {
	s := NewJWTStore("test-secret", time.Minute)
	ctx := context.Background()

	token, err := s.Create(ctx, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := s.Get(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	assert.NoError(t, s.Delete(ctx, token))
}

func TestJWTStore_ExpiredToken(t *testing.T) {
	s := NewJWTStore("test-secret", -time.Minute) // already expired
	ctx := context.Background()

	token, err := s.Create(ctx, 42)
	require.NoError(t, err)

	_, err = s.Get(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestJWTStore_InvalidToken(t *testing.T) {
	s := NewJWTStore("secret", time.Minute)

	_, err := s.Get(context.Background(), "invalid.token.string")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestJWTStore_WrongSecret(t *testing.T) {
	ctx := context.Background()

	token, err := NewJWTStore("secret1", time.Minute).Create(ctx, 1)
	require.NoError(t, err)

	_, err = NewJWTStore("secret2", time.Minute).Get(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestJWTStore_NonNumericSubject(t *testing.T) {
	s := NewJWTStore("secret", time.Minute)

	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = s.Get(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
