// Package oidc accepts bearer tokens issued by an external OpenID Connect
// provider (Keycloak) next to the service's own tokens.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/socialhub/go-services/pkg/middleware"
)

// Verifier wraps the provider's ID token verifier.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// IssuerURL is the Keycloak issuer for realm under baseURL.
func IssuerURL(baseURL, realm string) string {
	return strings.TrimSuffix(baseURL, "/") + "/realms/" + realm
}

// NewVerifier discovers the provider at issuer. Tokens must carry clientID in
// their audience.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("oidc client id is required")
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &Verifier{verifier: provider.Verifier(config(clientID))}, nil
}

func config(clientID string) *oidc.Config {
	return &oidc.Config{ClientID: clientID}
}

// Verify satisfies middleware.Verifier.
func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}
