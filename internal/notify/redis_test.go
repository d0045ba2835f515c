package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisInbox(t *testing.T) (*RedisInbox, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisInbox(rdb, DefaultRetention), mr
}

func TestRedisInboxDrainClears(t *testing.T) {
	inbox, _ := setupRedisInbox(t)
	ctx := context.Background()

	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n1", time.Now())))
	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n2", time.Now())))

	got, err := inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n2", got[0].ID)
	assert.Equal(t, "n1", got[1].ID)

	got, err = inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisInboxKeyTTL(t *testing.T) {
	inbox, mr := setupRedisInbox(t)
	ctx := context.Background()

	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n1", time.Now())))
	assert.Equal(t, DefaultRetention, mr.TTL(inboxKey("bob")))

	mr.FastForward(DefaultRetention + time.Minute)
	got, err := inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisInboxSkipsCorruptedEntries(t *testing.T) {
	inbox, mr := setupRedisInbox(t)
	ctx := context.Background()

	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n1", time.Now())))
	// 中间混入一条损坏数据
	_, err := mr.Lpush(inboxKey("bob"), "{not-json")
	require.NoError(t, err)
	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n2", time.Now())))

	got, err := inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n2", got[0].ID)
	assert.Equal(t, "n1", got[1].ID)

	// 整个键已清空
	assert.False(t, mr.Exists(inboxKey("bob")))
}

func TestRedisInboxFiltersExpiredEntries(t *testing.T) {
	inbox, _ := setupRedisInbox(t)
	ctx := context.Background()

	old := mkNotification("n-old", time.Now().Add(-DefaultRetention-time.Hour))
	require.NoError(t, inbox.Enqueue(ctx, "bob", old))
	require.NoError(t, inbox.Enqueue(ctx, "bob", mkNotification("n-new", time.Now())))

	got, err := inbox.Drain(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "n-new", got[0].ID)
}
