package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/socialhub/go-services/internal/media"
	"github.com/socialhub/go-services/pkg/metrics"
)

type MediaHandler struct {
	svc *media.Service
}

func NewMediaHandler(svc *media.Service) *MediaHandler {
	return &MediaHandler{svc: svc}
}

func (h *MediaHandler) Register(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	m := rg.Group("/media")
	m.GET("/list", h.List)
	m.GET("/:name", h.Download)
	m.POST("/upload", writeChain(guard, h.Upload)...)
	m.DELETE("/:name", writeChain(guard, h.Delete)...)
}

// Upload expects a multipart form with a "file" part.
func (h *MediaHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "multipart field 'file' is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "cannot read uploaded file")
		return
	}
	defer f.Close()

	stored, err := h.svc.Upload(c.Request.Context(), media.Upload{
		Reader:      f,
		Size:        fh.Size,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.MediaBytes.WithLabelValues("in").Add(float64(fh.Size))
	c.JSON(http.StatusOK, stored)
}

// Download streams the object back with its stored content type.
func (h *MediaHandler) Download(c *gin.Context) {
	dl, err := h.svc.Download(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer dl.Body.Close()
	if dl.Size > 0 {
		metrics.MediaBytes.WithLabelValues("out").Add(float64(dl.Size))
	}
	c.DataFromReader(http.StatusOK, dl.Size, dl.ContentType, dl.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", dl.Name),
	})
}

func (h *MediaHandler) List(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	names, err := h.svc.Page(c.Request.Context(), page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (h *MediaHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.svc.Delete(c.Request.Context(), name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "media deleted", "name": name})
}
