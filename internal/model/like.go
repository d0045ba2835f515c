package model

import "time"

// Like 点赞边（actor 对 target 的布尔成员关系）
type Like struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	UserID     string `gorm:"type:varchar(36);index:idx_like_triple,unique;not null"`
	TargetID   string `gorm:"type:varchar(36);index:idx_like_triple,unique;index:idx_like_target;not null"`
	TargetKind string `gorm:"type:varchar(16);index:idx_like_triple,unique;not null"` // post / comment
	// 复合唯一键，保证一条边至多存在一次
	// idx_like_triple = (user_id, target_id, target_kind)
	CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }
