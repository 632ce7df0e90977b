// Package auth implements the login flow: verify credentials, mint a token.
package auth

import (
	"context"

	"github.com/socialhub/go-services/internal/credentials"
	"github.com/socialhub/go-services/internal/tokens"
)

type Service struct {
	store  credentials.Store
	issuer *tokens.Issuer
}

func NewService(store credentials.Store, issuer *tokens.Issuer) *Service {
	return &Service{store: store, issuer: issuer}
}

// Login returns a bearer token when identity and secret match a stored
// credential. There is no refresh or revocation; tokens live until exp.
func (s *Service) Login(ctx context.Context, identity, secret string) (*tokens.Token, error) {
	if err := credentials.Verify(ctx, s.store, identity, secret); err != nil {
		return nil, err
	}
	return s.issuer.Issue(identity)
}
