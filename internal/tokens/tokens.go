// Package tokens mints and verifies the service's HS256 bearer tokens.
package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/socialhub/go-services/internal/apperr"
	"github.com/socialhub/go-services/pkg/middleware"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = time.Hour

// Config holds signing parameters.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Token is an issued bearer token.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Issuer signs tokens for authenticated identities.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
}

// Option customises an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source used for iat/exp and for validation.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

func NewIssuer(cfg Config, opts ...Option) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	i := &Issuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue signs a token for subject: sub, a random jti, iss, aud, iat = now and
// exp = now + ttl.
func (i *Issuer) Issue(subject string) (*Token, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        i.newID(),
		Issuer:    i.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	if i.audience != "" {
		claims.Audience = jwt.ClaimStrings{i.audience}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "tokens.issue", err)
	}
	return &Token{Token: signed, ExpiresAt: claims.ExpiresAt.Time.UTC()}, nil
}

// Parse validates signature, algorithm, expiry, issuer and audience.
func (i *Issuer) Parse(raw string) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	if i.audience != "" {
		opts = append(opts, jwt.WithAudience(i.audience))
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.Unauthorized, Op: "tokens.parse", Msg: "invalid token", Err: err}
	}
	return claims, nil
}

// Verify satisfies middleware.Verifier so the issuer can guard routes directly.
func (i *Issuer) Verify(_ context.Context, raw string) (middleware.Token, error) {
	claims, err := i.Parse(raw)
	if err != nil {
		return nil, err
	}
	return verified{claims: claims}, nil
}

type verified struct {
	claims *jwt.RegisteredClaims
}

func (v verified) Claims(dst interface{}) error {
	b, err := json.Marshal(v.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
