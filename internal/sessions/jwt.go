package sessions

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTStore keeps the session inside the cookie as an HS256 signed token.
// Nothing is stored server side, so Delete only relies on the cookie being cleared.
type JWTStore struct {
	SecretKey string        // Secret key for signing tokens
	Exp       time.Duration // Token expiration duration
}

// NewJWTStore creates a new JWTStore instance
func NewJWTStore(secretKey string, expiration time.Duration) *JWTStore {
	return &JWTStore{
		SecretKey: secretKey,
		Exp:       expiration,
	}
}

// Create signs a token carrying userID
func (s *JWTStore) Create(ctx context.Context, userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.Exp)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.SecretKey))
}

// Get parses the token and returns the user id it was issued for
func (s *JWTStore) Get(ctx context.Context, token string) (int64, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.SecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return 0, errors.Join(ErrSessionNotFound, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.Join(ErrSessionNotFound, err)
	}
	return userID, nil
}

// Delete is a no-op: a signed token cannot be revoked before it expires.
func (s *JWTStore) Delete(ctx context.Context, token string) error {
	return nil
}
