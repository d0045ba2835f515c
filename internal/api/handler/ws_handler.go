package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/internal/realtime"
	"github.com/d60-Lab/social-feed/pkg/logger"
)

func wsCloseDeadline() time.Time { return time.Now().Add(time.Second) }

// 鉴权失败时的关闭码（与前端约定）
const closeUnauthorized = 4001

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 跨域由网关层控制
	CheckOrigin: func(*http.Request) bool { return true },
}

// SubscribePost 订阅帖子实时事件
// @Summary WebSocket 订阅帖子
// @Tags WebSocket
// @Param post_id path string true "帖子ID"
// @Param token query string false "JWT"
// @Router /ws/posts/{post_id} [get]
func (h *Handler) SubscribePost(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		tokenStr = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	userID, authErr := h.verifier.Verify(tokenStr)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	if authErr != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(closeUnauthorized, "unauthorized"), wsCloseDeadline())
		_ = conn.Close()
		return
	}

	postID := c.Param("post_id")
	client := realtime.NewClient(h.hub, conn, userID, postID)
	h.hub.Register(client)
	logger.Debug("websocket subscribed", zap.String("user", client.UserID()), zap.String("topic", client.Topic()))
	client.Serve()
}
