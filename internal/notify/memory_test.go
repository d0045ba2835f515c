package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkNotification(id string, at time.Time) *Notification {
	return &Notification{ID: id, UserID: "bob", Type: TypePostLiked, ActorID: "alice", CreatedAt: at}
}

func TestMemoryInboxDrainClears(t *testing.T) {
	inbox := NewMemoryInbox(DefaultRetention)
	ctx := context.Background()

	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n1", time.Now())))
	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n2", time.Now())))

	got, err := inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// 最近的在前
	assert.Equal(t, "n2", got[0].ID)
	assert.Equal(t, "n1", got[1].ID)

	// 连续 Drain 第二次为空
	got, err = inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryInboxUsersIsolated(t *testing.T) {
	inbox := NewMemoryInbox(DefaultRetention)
	ctx := context.Background()

	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n1", time.Now())))
	got, err := inbox.Drain(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemoryInboxQueueExpiry(t *testing.T) {
	inbox := NewMemoryInbox(time.Hour)
	ctx := context.Background()

	now := time.Now()
	inbox.now = func() time.Time { return now }
	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n1", now)))

	// 超过保留期后整个队列过期
	inbox.now = func() time.Time { return now.Add(2 * time.Hour) }
	got, err := inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryInboxEnqueueRefreshesDeadline(t *testing.T) {
	inbox := NewMemoryInbox(time.Hour)
	ctx := context.Background()

	now := time.Now()
	inbox.now = func() time.Time { return now }
	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n1", now)))

	// 40 分钟后再入队，保留期顺延
	inbox.now = func() time.Time { return now.Add(40 * time.Minute) }
	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n2", now.Add(40*time.Minute))))

	// 距第一条 80 分钟：队列未过期，但 n1 超过单条窗口被过滤
	inbox.now = func() time.Time { return now.Add(80 * time.Minute) }
	got, err := inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "n2", got[0].ID)
}

func TestMemoryInboxDrainRemovesQueue(t *testing.T) {
	inbox := NewMemoryInbox(time.Hour)
	ctx := context.Background()

	now := time.Now()
	inbox.now = func() time.Time { return now }
	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n1", now)))
	require.NoError(t, inbox.Enqueue(ctx, "carol", mkNotification("n2", now)))

	_, err := inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	inbox.mu.Lock()
	assert.Len(t, inbox.queues, 1)
	inbox.mu.Unlock()

	// 过期队列 Drain 后同样被摘除
	inbox.now = func() time.Time { return now.Add(2 * time.Hour) }
	got, err := inbox.Drain(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, got)
	inbox.mu.Lock()
	assert.Empty(t, inbox.queues)
	inbox.mu.Unlock()

	// 摘除后再入队不受影响
	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n3", now.Add(2*time.Hour))))
	got, err = inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "n3", got[0].ID)
}

func TestMemoryInboxEnqueueDuringDrain(t *testing.T) {
	inbox := NewMemoryInbox(DefaultRetention)
	ctx := context.Background()
	const n = 200

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_ = inbox.Enqueue(ctx, "bob", mkNotification(fmt.Sprintf("n%03d", i), time.Now()))
		}
	}()

	// 与入队并发反复 Drain：不丢、不重
	seen := make(map[string]struct{}, n)
	for len(seen) < n {
		got, err := inbox.Drain(ctx, "bob")
		require.NoError(t, err)
		for _, it := range got {
			_, dup := seen[it.ID]
			require.False(t, dup, "notification %s delivered twice", it.ID)
			seen[it.ID] = struct{}{}
		}
	}
	wg.Wait()
}

func TestMemoryInboxConcurrent(t *testing.T) {
	inbox := NewMemoryInbox(DefaultRetention)
	ctx := context.Background()
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = inbox.Enqueue(ctx, "bob", mkNotification(fmt.Sprintf("n%03d", i), time.Now()))
		}(i)
	}
	wg.Wait()

	got, err := inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, got, n)
}
