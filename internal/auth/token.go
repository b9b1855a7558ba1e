package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that fail verification for any
// reason. Callers must not give away why a token was rejected.
var ErrInvalidToken = errors.New("could not validate credentials")

// TokenIssuer creates and verifies the JWT access tokens the API hands out.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
}

// NewTokenIssuer returns a TokenIssuer signing with the passed secret.
func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiry: expiry}
}

// CreateAccessToken creates a signed access token for the user.
// It returns the token and its lifetime in seconds.
func (i *TokenIssuer) CreateAccessToken(userID uuid.UUID) (string, int64, error) {
	now := time.Now().In(time.UTC)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", 0, err
	}

	return token, int64(i.expiry.Seconds()), nil
}

// VerifyAccessToken verifies the token signature and expiry and returns
// the user ID from the subject claim.
func (i *TokenIssuer) VerifyAccessToken(token string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return id, nil
}
