package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/opst/todofab/pkg/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// what the token is for.
type Use string

const (
	UseAccess  Use = "access"
	UseRefresh Use = "refresh"
)

// Claims of tokens issued by Issuer.
//
// Subject is the user id.
type Claims struct {
	Use Use `json:"use"`
	jwt.RegisteredClaims
}

// Issuer issues and verifies access tokens and refresh tokens.
//
// Both are HS256 JWT. They are signed with separate secrets.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	clock         func() time.Time
}

type Option func(*Issuer)

// WithClock replaces the clock used for issuing and verifying. Default is time.Now.
func WithClock(clock func() time.Time) Option {
	return func(i *Issuer) {
		i.clock = clock
	}
}

func NewIssuer(
	accessSecret []byte, accessTTL time.Duration,
	refreshSecret []byte, refreshTTL time.Duration,
	options ...Option,
) *Issuer {
	i := &Issuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		clock:         time.Now,
	}
	for _, o := range options {
		o(i)
	}
	return i
}

// Now returns the current time of the issuer's clock.
func (i *Issuer) Now() time.Time {
	return i.clock()
}

func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

func sign(secret []byte, claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (i *Issuer) claims(use Use, userId string, ttl time.Duration) Claims {
	now := i.clock()
	return Claims{
		Use: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// Access issues a new access token for the user.
func (i *Issuer) Access(userId string) (string, error) {
	return sign(i.accessSecret, i.claims(UseAccess, userId, i.accessTTL))
}

// Refresh issues a new refresh token for the user.
//
// The token is not stored. Callers should save it.
func (i *Issuer) Refresh(userId string) (domain.RefreshToken, error) {
	c := i.claims(UseRefresh, userId, i.refreshTTL)
	tok, err := sign(i.refreshSecret, c)
	if err != nil {
		return domain.RefreshToken{}, err
	}
	return domain.RefreshToken{
		Token:     tok,
		UserId:    userId,
		ExpiresAt: c.ExpiresAt.Time,
		CreatedAt: c.IssuedAt.Time,
	}, nil
}

// VerifyAccess verifies the access token and returns the user id in it.
//
// The error wraps ErrInvalidToken when the token is malformed, expired, or signed with another key.
func (i *Issuer) VerifyAccess(token string) (string, error) {
	return i.verify(token, UseAccess, i.accessSecret)
}

// VerifyRefresh verifies the refresh token and returns the user id in it.
//
// Revocation is not checked here. See stored tokens for that.
func (i *Issuer) VerifyRefresh(token string) (string, error) {
	return i.verify(token, UseRefresh, i.refreshSecret)
}

func (i *Issuer) verify(token string, use Use, secret []byte) (string, error) {
	c := &Claims{}
	_, err := jwt.ParseWithClaims(
		token, c,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if c.Use != use {
		return "", fmt.Errorf("%w: token is not for %s", ErrInvalidToken, use)
	}
	if c.Subject == "" {
		return "", fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return c.Subject, nil
}
