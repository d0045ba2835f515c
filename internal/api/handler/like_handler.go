package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/internal/counter"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/response"
)

type toggleLikeRequest struct {
	TargetID   string `json:"target_id" binding:"required"`
	TargetType string `json:"target_type" binding:"required,oneof=post comment"`
}

// ToggleLike 翻转点赞
// @Summary 点赞/取消点赞
// @Tags 点赞
// @Accept json
// @Produce json
// @Param request body toggleLikeRequest true "目标信息"
// @Success 200 {object} response.Response{data=service.ToggleLikeResult}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/likes/toggle [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	var req toggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.dispatcher.ToggleLike(c.Request.Context(), middleware.UserID(c), req.TargetID, counter.TargetKind(req.TargetType))
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, "post not found")
	case errors.Is(err, service.ErrCommentNotFound):
		response.NotFound(c, "comment not found")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Success(c, res)
	}
}
