package notify

import (
	"context"
	"sync"
	"time"
)

// MemoryInbox 进程内实现：每用户独立队列与锁，不同用户互不竞争
// 过期在 enqueue/drain 时惰性处理，无后台清扫
// 队列在 Drain 后整体摘除，queues 不随历史用户数无界增长
type MemoryInbox struct {
	retention time.Duration
	now       func() time.Time

	mu     sync.Mutex
	queues map[string]*userQueue
}

type userQueue struct {
	mu       sync.Mutex
	dead     bool            // 已从 queues 摘除，持有者需重新获取
	items    []*Notification // 最近的在前
	deadline time.Time       // 每次 enqueue 刷新
}

func NewMemoryInbox(retention time.Duration) *MemoryInbox {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &MemoryInbox{
		retention: retention,
		now:       time.Now,
		queues:    make(map[string]*userQueue),
	}
}

func (m *MemoryInbox) Enqueue(_ context.Context, userID string, n *Notification) error {
	now := m.now()
	for {
		m.mu.Lock()
		q, ok := m.queues[userID]
		if !ok {
			q = &userQueue{}
			m.queues[userID] = q
		}
		m.mu.Unlock()

		q.mu.Lock()
		if q.dead {
			// 拿到的队列刚被 Drain 摘除，重取
			q.mu.Unlock()
			continue
		}
		if !q.deadline.IsZero() && now.After(q.deadline) {
			q.items = nil
		}
		q.items = append([]*Notification{n}, q.items...)
		q.deadline = now.Add(m.retention)
		q.mu.Unlock()
		return nil
	}
}

func (m *MemoryInbox) Drain(_ context.Context, userID string) ([]*Notification, error) {
	now := m.now()

	m.mu.Lock()
	q, ok := m.queues[userID]
	if !ok {
		m.mu.Unlock()
		return nil, nil
	}
	q.mu.Lock()
	delete(m.queues, userID)
	q.dead = true
	items := q.items
	deadline := q.deadline
	q.items = nil
	q.mu.Unlock()
	m.mu.Unlock()

	if !deadline.IsZero() && now.After(deadline) {
		return nil, nil
	}
	cutoff := now.Add(-m.retention)
	out := make([]*Notification, 0, len(items))
	for _, n := range items {
		if n.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
