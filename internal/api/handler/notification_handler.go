package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/pkg/response"
)

// GetNotifications 取出并清空当前用户的通知（读即清空）
// @Summary 拉取通知
// @Tags 通知
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/notifications [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	notifications, err := h.dispatcher.DrainNotifications(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{
		"notifications": notifications,
		"unread_count":  len(notifications),
	})
}
