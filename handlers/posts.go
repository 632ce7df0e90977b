package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/socialhub/go-services/internal/posts"
)

type PostHandler struct {
	svc *posts.Service
}

func NewPostHandler(svc *posts.Service) *PostHandler {
	return &PostHandler{svc: svc}
}

// Register mounts /posts on rg. Mutating routes run behind guard when it is not nil.
func (h *PostHandler) Register(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	p := rg.Group("/posts")
	p.GET("", h.List)
	p.GET("/:id", h.Get)
	p.POST("", writeChain(guard, h.Create)...)
	p.PUT("/:id", writeChain(guard, h.Replace)...)
	p.DELETE("/:id", writeChain(guard, h.Delete)...)
}

func (h *PostHandler) List(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) Create(c *gin.Context) {
	var in posts.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", location(c, p.ID))
	c.JSON(http.StatusCreated, p)
}

// Replace overwrites title, body and media. id and creationTimestamp in the
// body are ignored.
func (h *PostHandler) Replace(c *gin.Context) {
	var patch posts.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
