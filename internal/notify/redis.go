package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/pkg/logger"
)

// RedisInbox Redis 实现：LPUSH + 键级 TTL，Drain 在一个 MULTI/EXEC 内
// LRANGE + DEL，多实例部署时可共享
type RedisInbox struct {
	rdb       *redis.Client
	retention time.Duration
}

func NewRedisInbox(rdb *redis.Client, retention time.Duration) *RedisInbox {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &RedisInbox{rdb: rdb, retention: retention}
}

func inboxKey(userID string) string { return "notifications:" + userID }

func (r *RedisInbox) Enqueue(ctx context.Context, userID string, n *Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	key := inboxKey(userID)
	pipe := r.rdb.Pipeline()
	pipe.LPush(ctx, key, payload)
	pipe.Expire(ctx, key, r.retention)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisInbox) Drain(ctx context.Context, userID string) ([]*Notification, error) {
	key := inboxKey(userID)

	pipe := r.rdb.TxPipeline()
	lrange := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	raw := lrange.Val()
	cutoff := time.Now().Add(-r.retention)
	out := make([]*Notification, 0, len(raw))
	for _, item := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			// 单条损坏不影响整批
			logger.Warn("skip undecodable notification", zap.String("user", userID), zap.Error(err))
			continue
		}
		if n.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, &n)
	}
	return out, nil
}
