package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/response"
)

type createPostRequest struct {
	Content string `json:"content" binding:"required,max=4096"`
}

func pageParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return
}

// CreatePost 发布帖子
// @Summary 发布帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Param request body createPostRequest true "帖子内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	post, err := h.dispatcher.CreatePost(c.Request.Context(), middleware.UserID(c), req.Content)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, post)
}

// ListUserPosts 按时间倒序分页返回某用户的帖子
// @Summary 用户帖子列表
// @Tags 帖子
// @Produce json
// @Param user_id path string true "用户ID"
// @Param offset query int false "偏移量"
// @Param limit query int false "数量上限（默认 20，最大 100）"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{user_id}/posts [get]
func (h *Handler) ListUserPosts(c *gin.Context) {
	offset, limit := pageParams(c)
	posts, err := h.dispatcher.ListPostsByAuthor(c.Request.Context(), c.Param("user_id"), offset, limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, posts)
}

// ListComments 按时间倒序分页返回帖子评论及总数
// @Summary 帖子评论列表
// @Tags 评论
// @Produce json
// @Param post_id path string true "帖子ID"
// @Param offset query int false "偏移量"
// @Param limit query int false "数量上限（默认 20，最大 100）"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	offset, limit := pageParams(c)
	res, err := h.dispatcher.ListComments(c.Request.Context(), c.Param("post_id"), offset, limit)
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, "post not found")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Success(c, res)
	}
}
