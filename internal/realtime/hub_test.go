package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvEvent(t *testing.T, c *Client) map[string]any {
	t.Helper()
	select {
	case payload := <-c.Messages():
		var m map[string]any
		require.NoError(t, json.Unmarshal(payload, &m))
		return m
	default:
		t.Fatal("no message delivered")
		return nil
	}
}

func TestPublishToTopic(t *testing.T) {
	h := NewHub()
	a := NewClient(h, nil, "alice", "p1")
	b := NewClient(h, nil, "bob", "p1")
	other := NewClient(h, nil, "carol", "p2")
	h.Register(a)
	h.Register(b)
	h.Register(other)

	h.PublishToTopic("p1", NewPostLiked("p1", "alice", true, 1))

	for _, c := range []*Client{a, b} {
		m := recvEvent(t, c)
		assert.Equal(t, TypePostLiked, m["type"])
		assert.Equal(t, "p1", m["post_id"])
	}
	assert.Empty(t, other.Messages())
}

func TestPublishToTopicNoSubscribers(t *testing.T) {
	h := NewHub()
	// 无订阅者时是 no-op，不 panic 不报错
	h.PublishToTopic("missing", NewPostCommented("c1", "p1", "alice"))
}

func TestPublishToUser(t *testing.T) {
	h := NewHub()
	// bob 在两个帖子上各有一条连接
	c1 := NewClient(h, nil, "bob", "p1")
	c2 := NewClient(h, nil, "bob", "p2")
	h.Register(c1)
	h.Register(c2)

	h.PublishToUser("bob", NewCommentLiked("c9", "alice", true, 3))

	for _, c := range []*Client{c1, c2} {
		m := recvEvent(t, c)
		assert.Equal(t, TypeCommentLiked, m["type"])
	}
}

func TestRegisterIdempotent(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil, "alice", "p1")
	h.Register(c)
	h.Register(c)

	assert.Equal(t, 1, h.TopicSubscribers("p1"))
	assert.Equal(t, 1, h.UserConnections("alice"))
}

func TestUnregister(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil, "alice", "p1")
	h.Register(c)
	h.Unregister(c)

	// 空集合的键被整体删除
	h.mu.RLock()
	_, topicExists := h.topics["p1"]
	_, userExists := h.users["alice"]
	h.mu.RUnlock()
	assert.False(t, topicExists)
	assert.False(t, userExists)

	// 注销后不再收到投递
	h.PublishToTopic("p1", NewPostCommented("c1", "p1", "bob"))
	assert.Empty(t, c.Messages())

	// 重复注销是 no-op
	h.Unregister(c)
}

func TestDeliverOrderPerConnection(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil, "alice", "p1")
	h.Register(c)

	for i := 0; i < 5; i++ {
		h.PublishToTopic("p1", NewPostLiked("p1", "bob", true, int64(i+1)))
	}
	for i := 0; i < 5; i++ {
		m := recvEvent(t, c)
		assert.Equal(t, float64(i+1), m["total_likes"])
	}
}

func TestSlowConnectionRemoved(t *testing.T) {
	h := NewHub()
	slow := NewClient(h, nil, "alice", "p1")
	ok := NewClient(h, nil, "bob", "p1")
	h.Register(slow)
	h.Register(ok)

	// 填满 slow 的缓冲，下一次投递将失败并触发自愈清理
	for i := 0; i < sendBufferSize; i++ {
		require.True(t, slow.send([]byte(`{}`)))
	}
	h.PublishToTopic("p1", NewPostCommented("c1", "p1", "carol"))

	assert.Equal(t, 1, h.TopicSubscribers("p1"))
	assert.Equal(t, 0, h.UserConnections("alice"))
	// 健康连接不受影响
	assert.Equal(t, 1, h.UserConnections("bob"))
}

func TestClosedConnectionRemoved(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil, "alice", "p1")
	h.Register(c)
	c.close()

	h.PublishToTopic("p1", NewPostCommented("c1", "p1", "bob"))
	assert.Equal(t, 0, h.TopicSubscribers("p1"))
}
