package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ClaimsKey is the gin context key holding the verified claims map.
const ClaimsKey = "claims"

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

type chain []Verifier

// Chain accepts a token when any of the verifiers accepts it, trying them in
// order. Nil verifiers are skipped.
func Chain(verifiers ...Verifier) Verifier {
	var c chain
	for _, v := range verifiers {
		if v != nil {
			c = append(c, v)
		}
	}
	if len(c) == 1 {
		return c[0]
	}
	return c
}

func (c chain) Verify(ctx context.Context, raw string) (Token, error) {
	var errs []error
	for _, v := range c {
		tok, err := v.Verify(ctx, raw)
		if err == nil {
			return tok, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, errors.New("no token verifier configured")
	}
	return nil, errors.Join(errs...)
}

// bearerToken extracts the token from 'Bearer <token>'.
func bearerToken(c *gin.Context) (string, bool) {
	var token string
	if n, _ := fmt.Sscanf(c.GetHeader("Authorization"), "Bearer %s", &token); n != 1 {
		return "", false
	}
	return token, true
}

func verifyClaims(ctx context.Context, ver Verifier, token string) (map[string]interface{}, error) {
	verified, err := ver.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	var claims map[string]interface{}
	if err := verified.Claims(&claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using the provided verifier
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		claims, err := verifyClaims(c.Request.Context(), ver, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Identify records the claims of a valid bearer token without enforcing one,
// so middleware that runs before the route guards can key on Subject.
// Requests without a valid token pass through anonymously.
func Identify(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := verifyClaims(c.Request.Context(), ver, token); err == nil {
				c.Set(ClaimsKey, claims)
			}
		}
		c.Next()
	}
}

// Subject returns the sub claim set by AuthMiddleware, or "".
func Subject(c *gin.Context) string {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return ""
	}
	cm, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	sub, _ := cm["sub"].(string)
	return sub
}
