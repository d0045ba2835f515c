package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/social-feed/internal/api/handler"
	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/pkg/token"
)

// NewRouter 组装路由与中间件
func NewRouter(h *handler.Handler, verifier *token.Verifier, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("social-feed"))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 握手内部自行鉴权（token 缺失时以 4001 关闭）
	r.GET("/ws/posts/:post_id", h.SubscribePost)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(verifier))
	{
		v1.POST("/posts", h.CreatePost)
		v1.GET("/users/:user_id/posts", h.ListUserPosts)
		v1.POST("/likes/toggle", h.ToggleLike)
		v1.POST("/posts/:post_id/comments", h.CreateComment)
		v1.GET("/posts/:post_id/comments", h.ListComments)
		v1.DELETE("/comments/:comment_id", h.DeleteComment)
		v1.GET("/notifications", h.GetNotifications)
	}

	return r
}
