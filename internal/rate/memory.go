package rate

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter replica la ventana fija del RedisLimiter sobre un contador
// en proceso. Alcanza para un deploy de un solo nodo.
type MemoryLimiter struct {
	c      *gocache.Cache
	max    int64
	window time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, time.Minute),
		max:    int64(max),
		window: window,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	winStart := time.Now().UTC().Truncate(l.window)
	k := fmt.Sprintf("%s:%d", key, winStart.Unix())

	if err := l.c.Add(k, int64(0), l.window); err == nil {
		// primera pega de la ventana
	}
	hits, err := l.c.IncrementInt64(k, 1)
	if err != nil {
		// la entrada expiró entre Add e Increment; reintento simple
		l.c.Set(k, int64(1), l.window)
		hits = 1
	}

	remaining := l.max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= l.max,
		Remaining:   remaining,
		CurrentHits: hits,
	}
	if !res.Allowed {
		res.RetryAfter = time.Until(winStart.Add(l.window))
	}
	return res, nil
}
