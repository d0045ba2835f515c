package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/internal/counter"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/notify"
	"github.com/d60-Lab/social-feed/internal/realtime"
	"github.com/d60-Lab/social-feed/internal/repository"
	"github.com/d60-Lab/social-feed/pkg/logger"
)

// Dispatcher 把一次业务动作编排到计数器、Hub 与收件箱
// 不做去重：同一动作重复调用会产生两次计数变更与两条通知
type Dispatcher struct {
	hub      *realtime.Hub
	counters *counter.Store
	inbox    notify.Inbox
	posts    repository.PostRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	persist  *LikePersister // 可为 nil，点赞边的尽力落库
}

func NewDispatcher(
	hub *realtime.Hub,
	counters *counter.Store,
	inbox notify.Inbox,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	persist *LikePersister,
) *Dispatcher {
	return &Dispatcher{
		hub:      hub,
		counters: counters,
		inbox:    inbox,
		posts:    posts,
		comments: comments,
		users:    users,
		persist:  persist,
	}
}

// ToggleLikeResult 点赞翻转结果
type ToggleLikeResult struct {
	IsLiked    bool  `json:"is_liked"`
	TotalLikes int64 `json:"total_likes"`
}

// ToggleLike 翻转 actor 对 target 的点赞状态并扇出
// 点赞产生通知，取消点赞不产生（与产品既有行为一致）
func (d *Dispatcher) ToggleLike(ctx context.Context, actorID, targetID string, kind counter.TargetKind) (*ToggleLikeResult, error) {
	var (
		postID  string
		ownerID string
	)
	switch kind {
	case counter.KindPost:
		post, err := d.posts.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, ErrPostNotFound
		}
		postID = post.ID
		ownerID = post.AuthorID
	case counter.KindComment:
		comment, err := d.comments.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if comment == nil {
			return nil, ErrCommentNotFound
		}
		postID = comment.PostID
		ownerID = comment.AuthorID
	default:
		return nil, ErrPostNotFound
	}

	isLiked, total := d.counters.Toggle(actorID, targetID, kind)
	if d.persist != nil {
		if isLiked {
			d.persist.EnqueueAdd(actorID, targetID, string(kind))
		} else {
			d.persist.EnqueueRemove(actorID, targetID, string(kind))
		}
	}

	var ev realtime.Event
	if kind == counter.KindPost {
		ev = realtime.NewPostLiked(targetID, actorID, isLiked, total)
	} else {
		ev = realtime.NewCommentLiked(targetID, actorID, isLiked, total)
	}
	d.hub.PublishToTopic(postID, ev)

	if isLiked && ownerID != "" && ownerID != actorID {
		d.hub.PublishToUser(ownerID, ev)
		d.notifyLiked(ctx, actorID, ownerID, postID, targetID, kind)
	}

	return &ToggleLikeResult{IsLiked: isLiked, TotalLikes: total}, nil
}

func (d *Dispatcher) notifyLiked(ctx context.Context, actorID, ownerID, postID, targetID string, kind counter.TargetKind) {
	actor, err := d.users.GetByID(ctx, actorID)
	if err != nil || actor == nil {
		return
	}
	n := &notify.Notification{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		ActorID:   actorID,
		PostID:    postID,
		CreatedAt: time.Now(),
	}
	if kind == counter.KindPost {
		n.Type = notify.TypePostLiked
		n.Message = actor.Username + " liked your post"
	} else {
		n.Type = notify.TypeCommentLiked
		n.Message = actor.Username + " liked your comment"
		n.CommentID = targetID
	}
	if err := d.inbox.Enqueue(ctx, ownerID, n); err != nil {
		logger.Warn("enqueue notification", zap.String("user", ownerID), zap.Error(err))
	}
}

// CreateComment 落地评论、累加评论数并扇出
// 回复通知父评论作者，顶层评论通知帖子作者；本人操作不通知
func (d *Dispatcher) CreateComment(ctx context.Context, postID, authorID, content string, parentCommentID *string) (*model.Comment, error) {
	post, err := d.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	var parent *model.Comment
	if parentCommentID != nil && *parentCommentID != "" {
		parent, err = d.comments.GetByID(ctx, *parentCommentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCommentNotFound
		}
	}

	comment, err := d.comments.Create(ctx, postID, authorID, content, parentCommentID)
	if err != nil {
		return nil, err
	}
	d.counters.IncrComments(postID)

	var (
		ev          realtime.Event
		recipientID string
		ntype       string
		verb        string
	)
	if parent != nil {
		ev = realtime.NewCommentReplied(comment.ID, parent.ID, postID, authorID)
		recipientID = parent.AuthorID
		ntype = notify.TypeCommentReplied
		verb = " replied to your comment"
	} else {
		ev = realtime.NewPostCommented(comment.ID, postID, authorID)
		recipientID = post.AuthorID
		ntype = notify.TypePostCommented
		verb = " commented on your post"
	}
	d.hub.PublishToTopic(postID, ev)

	if recipientID != "" && recipientID != authorID {
		d.hub.PublishToUser(recipientID, ev)
		if actor, err := d.users.GetByID(ctx, authorID); err == nil && actor != nil {
			n := &notify.Notification{
				ID:        uuid.New().String(),
				UserID:    recipientID,
				Type:      ntype,
				Message:   actor.Username + verb,
				PostID:    postID,
				CommentID: comment.ID,
				ActorID:   authorID,
				CreatedAt: time.Now(),
			}
			if err := d.inbox.Enqueue(ctx, recipientID, n); err != nil {
				logger.Warn("enqueue notification", zap.String("user", recipientID), zap.Error(err))
			}
		}
	}

	return comment, nil
}

// DeleteComment 作者本人删除评论并回退评论数
func (d *Dispatcher) DeleteComment(ctx context.Context, commentID, userID string) error {
	comment, err := d.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != userID {
		return ErrUnauthorized
	}
	if err := d.comments.Delete(ctx, commentID); err != nil {
		return err
	}
	d.counters.DecrComments(comment.PostID)
	return nil
}

// CreatePost 发布帖子
func (d *Dispatcher) CreatePost(ctx context.Context, authorID, content string) (*model.Post, error) {
	return d.posts.Create(ctx, authorID, content)
}

// ListPostsByAuthor 按时间倒序分页返回某作者的帖子
func (d *Dispatcher) ListPostsByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.Post, error) {
	return d.posts.ListByAuthor(ctx, authorID, offset, limit)
}

// PostComments 帖子评论分页结果
type PostComments struct {
	Comments []*model.Comment `json:"comments"`
	Total    int64            `json:"total"`
}

// ListComments 按时间倒序分页返回帖子评论及总数
func (d *Dispatcher) ListComments(ctx context.Context, postID string, offset, limit int) (*PostComments, error) {
	post, err := d.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	comments, err := d.comments.ListByPost(ctx, postID, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := d.comments.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &PostComments{Comments: comments, Total: total}, nil
}

// DrainNotifications 取出并清空用户收件箱
func (d *Dispatcher) DrainNotifications(ctx context.Context, userID string) ([]*notify.Notification, error) {
	return d.inbox.Drain(ctx, userID)
}
