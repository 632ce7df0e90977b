package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/socialhub/go-services/internal/comments"
)

type CommentHandler struct {
	svc *comments.Service
}

func NewCommentHandler(svc *comments.Service) *CommentHandler {
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) Register(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	g := rg.Group("/comments")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", writeChain(guard, h.Create)...)
	g.PUT("/:id", writeChain(guard, h.Merge)...)
	g.DELETE("/:id", writeChain(guard, h.Delete)...)
}

func (h *CommentHandler) List(c *gin.Context) {
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

func (h *CommentHandler) Get(c *gin.Context) {
	cm, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cm)
}

func (h *CommentHandler) Create(c *gin.Context) {
	var in comments.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cm, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", location(c, cm.ID))
	c.JSON(http.StatusCreated, cm)
}

// Merge applies only the non-empty fields of the body.
func (h *CommentHandler) Merge(c *gin.Context) {
	var patch comments.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cm, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cm)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
