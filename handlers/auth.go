package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/socialhub/go-services/internal/auth"
)

// LoginRequest is the credential pair presented at login. Empty fields are
// checked like any other pair and fail with 401.
type LoginRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.Group("/auth").POST("/login", h.Login)
}

// Login returns {token, expiresAt} for a valid pair and 401 otherwise.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be a JSON object with 'identity' and 'secret'")
		return
	}
	tok, err := h.svc.Login(c.Request.Context(), req.Identity, req.Secret)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tok)
}
