package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/internal/repository"
	"github.com/d60-Lab/social-feed/pkg/logger"
)

type likeAction int

const (
	actionAdd likeAction = iota + 1
	actionRemove
)

type likeJob struct {
	action     likeAction
	userID     string
	targetID   string
	targetKind string
	enqAt      time.Time
}

// LikePersister 点赞边的本地异步落库执行器（尽力而为，不保证送达）
type LikePersister struct {
	likeRepo  repository.LikeRepository
	ch        chan likeJob
	metricsCh chan time.Duration
}

func NewLikePersister(likeRepo repository.LikeRepository, queueSize int) *LikePersister {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &LikePersister{likeRepo: likeRepo, ch: make(chan likeJob, queueSize), metricsCh: make(chan time.Duration, 65536)}
}

func (p *LikePersister) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-p.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					switch job.action {
					case actionAdd:
						_ = p.likeRepo.Create(ctx, job.userID, job.targetID, job.targetKind)
					case actionRemove:
						_ = p.likeRepo.Delete(ctx, job.userID, job.targetID, job.targetKind)
					}
					cancel()
					if !job.enqAt.IsZero() {
						select {
						case p.metricsCh <- time.Since(job.enqAt):
						default:
						}
					}
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		// 等待队列自然排空一小段时间
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(p.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

func (p *LikePersister) EnqueueAdd(userID, targetID, targetKind string) {
	select {
	case p.ch <- likeJob{action: actionAdd, userID: userID, targetID: targetID, targetKind: targetKind, enqAt: time.Now()}:
	default:
		logger.Warn("persister queue full, drop add", zap.String("user", userID), zap.String("target", targetID))
	}
}

func (p *LikePersister) EnqueueRemove(userID, targetID, targetKind string) {
	select {
	case p.ch <- likeJob{action: actionRemove, userID: userID, targetID: targetID, targetKind: targetKind, enqAt: time.Now()}:
	default:
		logger.Warn("persister queue full, drop remove", zap.String("user", userID), zap.String("target", targetID))
	}
}

// Metrics 返回落库耗时的只读通道（每处理一条发送一次 duration）。
func (p *LikePersister) Metrics() <-chan time.Duration { return p.metricsCh }

// QueueLen 返回当前队列长度（采样值）。
func (p *LikePersister) QueueLen() int { return len(p.ch) }
