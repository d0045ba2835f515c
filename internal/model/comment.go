package model

import "time"

// Comment 评论，ParentCommentID 非空表示回复
type Comment struct {
	ID              string  `gorm:"primaryKey;type:varchar(36)"`
	PostID          string  `gorm:"type:varchar(36);index:idx_comment_post;not null"`
	AuthorID        string  `gorm:"type:varchar(36);index:idx_comment_author;not null"`
	ParentCommentID *string `gorm:"type:varchar(36);index:idx_comment_parent"`
	Content         string  `gorm:"type:text;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Comment) TableName() string { return "comments" }
