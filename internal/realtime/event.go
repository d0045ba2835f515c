package realtime

import "encoding/json"

// 事件类型枚举（wire 层 type 字段）
const (
	TypePostCommented  = "post:commented"
	TypeCommentReplied = "comment:replied"
	TypePostLiked      = "post:liked"
	TypeCommentLiked   = "comment:liked"
)

// Event 封闭的事件变体集合，每种 wire 类型一个结构体
type Event interface {
	EventType() string
}

// PostCommentedEvent 帖子被评论
type PostCommentedEvent struct {
	Type      string `json:"type"`
	CommentID string `json:"comment_id"`
	PostID    string `json:"post_id"`
	AuthorID  string `json:"author_id"`
}

func (e PostCommentedEvent) EventType() string { return e.Type }

func NewPostCommented(commentID, postID, authorID string) PostCommentedEvent {
	return PostCommentedEvent{Type: TypePostCommented, CommentID: commentID, PostID: postID, AuthorID: authorID}
}

// CommentRepliedEvent 评论被回复
type CommentRepliedEvent struct {
	Type            string `json:"type"`
	CommentID       string `json:"comment_id"`
	ParentCommentID string `json:"parent_comment_id"`
	PostID          string `json:"post_id"`
	AuthorID        string `json:"author_id"`
}

func (e CommentRepliedEvent) EventType() string { return e.Type }

func NewCommentReplied(commentID, parentCommentID, postID, authorID string) CommentRepliedEvent {
	return CommentRepliedEvent{Type: TypeCommentReplied, CommentID: commentID, ParentCommentID: parentCommentID, PostID: postID, AuthorID: authorID}
}

// PostLikedEvent 帖子点赞状态变化
type PostLikedEvent struct {
	Type       string `json:"type"`
	PostID     string `json:"post_id"`
	UserID     string `json:"user_id"`
	IsLiked    bool   `json:"is_liked"`
	TotalLikes int64  `json:"total_likes"`
}

func (e PostLikedEvent) EventType() string { return e.Type }

func NewPostLiked(postID, userID string, isLiked bool, totalLikes int64) PostLikedEvent {
	return PostLikedEvent{Type: TypePostLiked, PostID: postID, UserID: userID, IsLiked: isLiked, TotalLikes: totalLikes}
}

// CommentLikedEvent 评论点赞状态变化
type CommentLikedEvent struct {
	Type       string `json:"type"`
	CommentID  string `json:"comment_id"`
	UserID     string `json:"user_id"`
	IsLiked    bool   `json:"is_liked"`
	TotalLikes int64  `json:"total_likes"`
}

func (e CommentLikedEvent) EventType() string { return e.Type }

func NewCommentLiked(commentID, userID string, isLiked bool, totalLikes int64) CommentLikedEvent {
	return CommentLikedEvent{Type: TypeCommentLiked, CommentID: commentID, UserID: userID, IsLiked: isLiked, TotalLikes: totalLikes}
}

// Encode 统一的信封编码入口，所有投递路径都经由这里
func Encode(e Event) ([]byte, error) {
	return json.Marshal(e)
}
