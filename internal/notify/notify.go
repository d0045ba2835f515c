package notify

import (
	"context"
	"time"
)

// 通知类型枚举
const (
	TypePostLiked      = "post_liked"
	TypeCommentLiked   = "comment_liked"
	TypePostCommented  = "post_commented"
	TypeCommentReplied = "comment_replied"
)

// DefaultRetention 通知保留窗口
const DefaultRetention = 7 * 24 * time.Hour

// Notification 不可变通知记录
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	PostID    string    `json:"post_id,omitempty"`
	CommentID string    `json:"comment_id,omitempty"`
	ActorID   string    `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Inbox 按用户隔离的待读通知队列，读即清空，至多一次投递
type Inbox interface {
	// Enqueue 追加通知并刷新队列保留期
	Enqueue(ctx context.Context, userID string, n *Notification) error
	// Drain 原子地取出并清空当前全部通知（最近的在前）
	Drain(ctx context.Context, userID string) ([]*Notification, error)
}
