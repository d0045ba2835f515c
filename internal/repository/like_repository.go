package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/social-feed/internal/model"
)

type LikeRepository interface {
	Create(ctx context.Context, userID, targetID, targetKind string) error
	Delete(ctx context.Context, userID, targetID, targetKind string) error
	Exists(ctx context.Context, userID, targetID, targetKind string) (bool, error)
	CountByTarget(ctx context.Context, targetID, targetKind string) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, userID, targetID, targetKind string) error {
	l := &model.Like{ID: uuid.New().String(), UserID: userID, TargetID: targetID, TargetKind: targetKind}
	// 幂等：重复写边不报错
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l).Error
}

func (r *likeRepository) Delete(ctx context.Context, userID, targetID, targetKind string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_kind = ?", userID, targetID, targetKind).
		Delete(&model.Like{}).Error
}

func (r *likeRepository) Exists(ctx context.Context, userID, targetID, targetKind string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND target_id = ? AND target_kind = ?", userID, targetID, targetKind).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *likeRepository) CountByTarget(ctx context.Context, targetID, targetKind string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("target_id = ? AND target_kind = ?", targetID, targetKind).
		Count(&cnt).Error
	return cnt, err
}
