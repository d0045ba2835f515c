package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, postID, authorID, content string, parentCommentID *string) (*model.Comment, error)
	GetByID(ctx context.Context, commentID string) (*model.Comment, error)
	Delete(ctx context.Context, commentID string) error
	ListByPost(ctx context.Context, postID string, offset, limit int) ([]*model.Comment, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, postID, authorID, content string, parentCommentID *string) (*model.Comment, error) {
	c := &model.Comment{
		ID:              uuid.New().String(),
		PostID:          postID,
		AuthorID:        authorID,
		ParentCommentID: parentCommentID,
		Content:         content,
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID 不存在时返回 (nil, nil)
func (r *commentRepository) GetByID(ctx context.Context, commentID string) (*model.Comment, error) {
	var c model.Comment
	err := r.db.WithContext(ctx).Where("id = ?", commentID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID string) error {
	return r.db.WithContext(ctx).Where("id = ?", commentID).Delete(&model.Comment{}).Error
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string, offset, limit int) ([]*model.Comment, error) {
	var res []*model.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}
