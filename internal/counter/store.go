package counter

import (
	"hash/fnv"
	"sync"
)

// TargetKind 点赞目标类型
type TargetKind string

const (
	KindPost    TargetKind = "post"
	KindComment TargetKind = "comment"
)

// ShardCount 分片数量，按 target 路由，互不相关的 target 尽量不竞争
const ShardCount = 16

type edgeKey struct {
	actorID  string
	targetID string
	kind     TargetKind
}

type targetKey struct {
	targetID string
	kind     TargetKind
}

type shard struct {
	mu       sync.RWMutex
	edges    map[edgeKey]struct{}
	likes    map[targetKey]int64
	comments map[string]int64 // post_id -> 评论数
}

// Store 聚合计数器：点赞边 + 点赞数 + 评论数
// check-then-act 在分片写锁内完成，同一 target 的并发 Toggle 串行化
type Store struct {
	shards [ShardCount]*shard
}

func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &shard{
			edges:    make(map[edgeKey]struct{}),
			likes:    make(map[targetKey]int64),
			comments: make(map[string]int64),
		}
	}
	return s
}

// routeByTarget 根据 target 路由到对应分片
func routeByTarget(targetID string, kind TargetKind) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(targetID))
	_, _ = h.Write([]byte(kind))
	return int(h.Sum32() % ShardCount)
}

// Toggle 翻转 (actor, target, kind) 的成员状态，返回新状态与最新计数
func (s *Store) Toggle(actorID, targetID string, kind TargetKind) (bool, int64) {
	sh := s.shards[routeByTarget(targetID, kind)]
	ek := edgeKey{actorID: actorID, targetID: targetID, kind: kind}
	tk := targetKey{targetID: targetID, kind: kind}

	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.edges[ek]; ok {
		delete(sh.edges, ek)
		n := sh.likes[tk] - 1
		if n < 0 {
			n = 0 // 防御性下界，串行化下不应出现
		}
		if n == 0 {
			delete(sh.likes, tk)
		} else {
			sh.likes[tk] = n
		}
		return false, n
	}

	sh.edges[ek] = struct{}{}
	sh.likes[tk]++
	return true, sh.likes[tk]
}

// Count 返回 target 当前点赞数（读不占写锁，反映已完成的 Toggle）
func (s *Store) Count(targetID string, kind TargetKind) int64 {
	sh := s.shards[routeByTarget(targetID, kind)]
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.likes[targetKey{targetID: targetID, kind: kind}]
}

// IsMember 返回 actor 是否已对 target 点赞
func (s *Store) IsMember(actorID, targetID string, kind TargetKind) bool {
	sh := s.shards[routeByTarget(targetID, kind)]
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	_, ok := sh.edges[edgeKey{actorID: actorID, targetID: targetID, kind: kind}]
	return ok
}

// IncrComments 帖子评论数 +1
func (s *Store) IncrComments(postID string) int64 {
	sh := s.shards[routeByTarget(postID, KindPost)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.comments[postID]++
	return sh.comments[postID]
}

// DecrComments 帖子评论数 -1，下界为 0
func (s *Store) DecrComments(postID string) int64 {
	sh := s.shards[routeByTarget(postID, KindPost)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	n := sh.comments[postID] - 1
	if n < 0 {
		n = 0
	}
	if n == 0 {
		delete(sh.comments, postID)
	} else {
		sh.comments[postID] = n
	}
	return n
}

// Comments 返回帖子当前评论数
func (s *Store) Comments(postID string) int64 {
	sh := s.shards[routeByTarget(postID, KindPost)]
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.comments[postID]
}
