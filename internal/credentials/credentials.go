// Package credentials checks identity/secret pairs presented at login.
package credentials

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/socialhub/go-services/internal/apperr"
)

// Credential is a stored identity with its hashed secret.
type Credential struct {
	Identity   string    `bson:"_id"`
	SecretHash string    `bson:"secretHash"`
	CreatedAt  time.Time `bson:"createdAt"`
}

// Store resolves identities. An unknown identity is apperr.NotFound.
type Store interface {
	Lookup(ctx context.Context, identity string) (*Credential, error)
}

// dummyHash is a DefaultParams hash that no secret matches. Unknown identities
// are compared against it so they cost as much as a wrong secret.
const dummyHash = "$argon2id$v=19$m=65536,t=3,p=2$c29jaWFsaHViLWR1bW15$" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

var compare = Compare

// Verify checks the full pair. An unknown identity and a wrong secret produce
// the same Unauthorized error after the same hashing work.
func Verify(ctx context.Context, store Store, identity, secret string) error {
	const op = "credentials.verify"
	cred, err := store.Lookup(ctx, identity)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			_ = compare(dummyHash, secret)
			return &apperr.Error{Kind: apperr.Unauthorized, Op: op, Msg: "invalid credentials"}
		}
		return err
	}
	if err := compare(cred.SecretHash, secret); err != nil {
		return &apperr.Error{Kind: apperr.Unauthorized, Op: op, Msg: "invalid credentials"}
	}
	return nil
}

// Static holds a single configured identity.
type Static struct {
	identity string
	cred     Credential
}

// NewStatic hashes secret once so Verify treats it like any stored credential.
func NewStatic(h *Hasher, identity, secret string) (*Static, error) {
	hash, err := h.Hash(secret)
	if err != nil {
		return nil, err
	}
	return &Static{
		identity: identity,
		cred:     Credential{Identity: identity, SecretHash: hash, CreatedAt: time.Now().UTC()},
	}, nil
}

func (s *Static) Lookup(_ context.Context, identity string) (*Credential, error) {
	if subtle.ConstantTimeCompare([]byte(identity), []byte(s.identity)) != 1 {
		return nil, apperr.E(apperr.NotFound, "credentials.lookup", "unknown identity")
	}
	c := s.cred
	return &c, nil
}
