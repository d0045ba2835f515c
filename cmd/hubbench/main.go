package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/d60-Lab/social-feed/internal/realtime"
)

func main() {
	SUBS := 1000
	if s := os.Getenv("SUBS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { SUBS = v } }
	REPEAT := 200
	if s := os.Getenv("REPEAT"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { REPEAT = v } }

	hub := realtime.NewHub()
	topic := "bench-post"

	clients := make([]*realtime.Client, SUBS)
	for i := 0; i < SUBS; i++ {
		c := realtime.NewClient(hub, nil, fmt.Sprintf("u%06d", i), topic)
		hub.Register(c)
		clients[i] = c
	}

	// drain subscriber buffers so publishes never hit a full channel
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Add(1)
		go func(ch <-chan []byte) {
			defer wg.Done()
			for {
				select {
				case <-ch:
				case <-stop:
					return
				}
			}
		}(c.Messages())
	}

	lats := make([]time.Duration, 0, REPEAT)
	for i := 0; i < REPEAT; i++ {
		ev := realtime.NewPostLiked(topic, "bench-actor", true, int64(i))
		st := time.Now()
		hub.PublishToTopic(topic, ev)
		lats = append(lats, time.Since(st))
	}
	close(stop)
	wg.Wait()

	pct := func(vs []time.Duration, p float64) time.Duration {
		xs := append([]time.Duration(nil), vs...)
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		k := int(float64(len(xs)) * p)
		if k < 0 { k = 0 }
		if k >= len(xs) { k = len(xs) - 1 }
		return xs[k]
	}

	var sum time.Duration
	for _, d := range lats { sum += d }
	fmt.Printf("SUBS=%d REPEAT=%d\n", SUBS, REPEAT)
	fmt.Printf("PublishToTopic fan-out: avg=%v p95=%v p99=%v\n", sum/time.Duration(len(lats)), pct(lats, 0.95), pct(lats, 0.99))
}
