package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/socialhub/go-services/internal/apperr"
	"github.com/socialhub/go-services/internal/document"
	"github.com/socialhub/go-services/pkg/logger"
)

// respondError writes {"error": msg} with the status mapped from the error kind.
// Backend detail is logged, never returned.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		logger.Slog().Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"kind", apperr.KindOf(err).String(),
			"error", err,
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperr.Message(err)})
}

func badRequest(c *gin.Context, msg string) {
	respondError(c, apperr.E(apperr.InvalidInput, "http", msg))
}

// pageFromQuery reads the optional limit/offset window. Absent values leave
// the scan unbounded.
func pageFromQuery(c *gin.Context) (document.Page, bool) {
	var p document.Page
	for _, q := range []struct {
		name string
		dst  *int
	}{{"limit", &p.Limit}, {"offset", &p.Offset}} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "query parameter '"+q.name+"' must be a non-negative integer")
			return p, false
		}
		*q.dst = n
	}
	return p, true
}

// location is the URL of a resource created under the current collection path.
func location(c *gin.Context, id string) string {
	return strings.TrimSuffix(c.Request.URL.Path, "/") + "/" + id
}

// writeChain prepends the write guard when one is configured.
func writeChain(guard gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if guard == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{guard, h}
}
