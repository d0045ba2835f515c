package realtime

import (
	"sync"

	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/pkg/logger"
)

// Hub 进程内的连接注册表与广播器
// 两个双向索引：topic -> 连接集合，user -> 连接集合
// 投递前快照订阅集合并释放锁，慢接收方不会阻塞其他订阅者或注册表变更
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Client]struct{}
	users  map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*Client]struct{}),
		users:  make(map[string]map[*Client]struct{}),
	}
}

// Register 将连接加入两个索引，重复注册为幂等
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.topics[c.topic] == nil {
		h.topics[c.topic] = make(map[*Client]struct{})
	}
	h.topics[c.topic][c] = struct{}{}

	if h.users[c.userID] == nil {
		h.users[c.userID] = make(map[*Client]struct{})
	}
	h.users[c.userID][c] = struct{}{}
}

// Unregister 将连接移出两个索引，集合清空后删除键
// 对已注销的连接调用是 no-op
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.topics[c.topic]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.topics, c.topic)
		}
	}
	if set, ok := h.users[c.userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.users, c.userID)
		}
	}
	h.mu.Unlock()

	c.close()
}

// PublishToTopic 向 topic 的全部订阅连接投递事件，无订阅者时为 no-op
func (h *Hub) PublishToTopic(topic string, e Event) {
	payload, err := Encode(e)
	if err != nil {
		logger.Error("encode event", zap.String("type", e.EventType()), zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := snapshot(h.topics[topic])
	h.mu.RUnlock()

	h.deliver(targets, payload)
}

// PublishToUser 向某用户的全部连接投递事件（跨其所有 topic 订阅）
func (h *Hub) PublishToUser(userID string, e Event) {
	payload, err := Encode(e)
	if err != nil {
		logger.Error("encode event", zap.String("type", e.EventType()), zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := snapshot(h.users[userID])
	h.mu.RUnlock()

	h.deliver(targets, payload)
}

// deliver 尽力投递：失败的连接从索引中移除（自愈），不向调用方抛错
func (h *Hub) deliver(targets []*Client, payload []byte) {
	for _, c := range targets {
		if !c.send(payload) {
			logger.Debug("drop slow or dead connection",
				zap.String("user", c.userID), zap.String("topic", c.topic))
			h.Unregister(c)
		}
	}
}

// TopicSubscribers 返回 topic 当前订阅连接数（采样值）
func (h *Hub) TopicSubscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// UserConnections 返回用户当前连接数（采样值）
func (h *Hub) UserConnections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

func snapshot(set map[*Client]struct{}) []*Client {
	if len(set) == 0 {
		return nil
	}
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}
