package counter

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleParity(t *testing.T) {
	s := NewStore()

	liked, n := s.Toggle("u1", "p1", KindPost)
	assert.True(t, liked)
	assert.Equal(t, int64(1), n)

	liked, n = s.Toggle("u1", "p1", KindPost)
	assert.False(t, liked)
	assert.Equal(t, int64(0), n)

	// 偶数次翻转回到初始状态
	for i := 0; i < 10; i++ {
		s.Toggle("u1", "p1", KindPost)
	}
	assert.Equal(t, int64(0), s.Count("p1", KindPost))
	assert.False(t, s.IsMember("u1", "p1", KindPost))
}

func TestToggleDistinctActorsConcurrent(t *testing.T) {
	s := NewStore()
	const actors = 50

	var wg sync.WaitGroup
	for i := 0; i < actors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			liked, _ := s.Toggle(fmt.Sprintf("u%03d", i), "p1", KindPost)
			assert.True(t, liked)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(actors), s.Count("p1", KindPost))
}

func TestToggleSameActorConcurrent(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Toggle("u1", "p1", KindPost)
		}()
	}
	wg.Wait()

	// 两次并发翻转收敛到单一终态：0 或 1，不会重复计数
	n := s.Count("p1", KindPost)
	member := s.IsMember("u1", "p1", KindPost)
	if member {
		assert.Equal(t, int64(1), n)
	} else {
		assert.Equal(t, int64(0), n)
	}
}

func TestToggleKindsIsolated(t *testing.T) {
	s := NewStore()
	s.Toggle("u1", "x1", KindPost)
	s.Toggle("u1", "x1", KindComment)

	assert.Equal(t, int64(1), s.Count("x1", KindPost))
	assert.Equal(t, int64(1), s.Count("x1", KindComment))

	s.Toggle("u1", "x1", KindPost)
	assert.Equal(t, int64(0), s.Count("x1", KindPost))
	assert.Equal(t, int64(1), s.Count("x1", KindComment))
}

func TestCommentCounters(t *testing.T) {
	s := NewStore()

	assert.Equal(t, int64(1), s.IncrComments("p1"))
	assert.Equal(t, int64(2), s.IncrComments("p1"))
	assert.Equal(t, int64(2), s.Comments("p1"))

	assert.Equal(t, int64(1), s.DecrComments("p1"))
	assert.Equal(t, int64(0), s.DecrComments("p1"))
	// 下界为 0
	assert.Equal(t, int64(0), s.DecrComments("p1"))
}

func TestCommentCountersConcurrent(t *testing.T) {
	s := NewStore()
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.IncrComments("p1")
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(n), s.Comments("p1"))
}

func BenchmarkToggleSameTarget(b *testing.B) {
	s := NewStore()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			s.Toggle(fmt.Sprintf("u%d", i), "p1", KindPost)
			i++
		}
	})
}

func BenchmarkToggleSpreadTargets(b *testing.B) {
	s := NewStore()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			s.Toggle("u1", fmt.Sprintf("p%d", i%1024), KindPost)
			i++
		}
	})
}
