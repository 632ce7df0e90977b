package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/socialhub/go-services/internal/auth"
	"github.com/socialhub/go-services/internal/comments"
	"github.com/socialhub/go-services/internal/media"
	"github.com/socialhub/go-services/internal/posts"
)

// Services are the handlers' dependencies.
type Services struct {
	Posts    *posts.Service
	Comments *comments.Service
	Media    *media.Service
	Auth     *auth.Service
}

// RegisterRoutes mounts every resource route at the root and again under /api.
// guard protects mutating routes; nil leaves them open.
func RegisterRoutes(r *gin.Engine, s Services, guard gin.HandlerFunc) {
	ph := NewPostHandler(s.Posts)
	ch := NewCommentHandler(s.Comments)
	mh := NewMediaHandler(s.Media)
	ah := NewAuthHandler(s.Auth)

	for _, rg := range []*gin.RouterGroup{&r.RouterGroup, r.Group("/api")} {
		ph.Register(rg, guard)
		ch.Register(rg, guard)
		mh.Register(rg, guard)
		ah.Register(rg)
	}
}
