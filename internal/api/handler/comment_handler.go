package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/response"
)

type createCommentRequest struct {
	Content         string  `json:"content" binding:"required"`
	ParentCommentID *string `json:"parent_comment_id"`
}

// CreateComment 发表评论或回复
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Param post_id path string true "帖子ID"
// @Param request body createCommentRequest true "评论内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	comment, err := h.dispatcher.CreateComment(c.Request.Context(), c.Param("post_id"), middleware.UserID(c), req.Content, req.ParentCommentID)
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, "post not found")
	case errors.Is(err, service.ErrCommentNotFound):
		response.NotFound(c, "parent comment not found")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Created(c, comment)
	}
}

// DeleteComment 删除评论（仅作者）
// @Summary 删除评论
// @Tags 评论
// @Param comment_id path string true "评论ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/comments/{comment_id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	err := h.dispatcher.DeleteComment(c.Request.Context(), c.Param("comment_id"), middleware.UserID(c))
	switch {
	case errors.Is(err, service.ErrCommentNotFound):
		response.NotFound(c, "comment not found")
	case errors.Is(err, service.ErrUnauthorized):
		response.Unauthorized(c, "not the comment author")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Success(c, nil)
	}
}
