package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(3, time.Hour)
	key := LoginKey("192.0.2.1", "alice")

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, key)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d should be allowed", i)
		}
		if res.CurrentHits != int64(i) {
			t.Fatalf("hits: got %d want %d", res.CurrentHits, i)
		}
	}

	res, err := l.Allow(ctx, key)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if res.Allowed {
		t.Fatal("fourth hit should be blocked")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("retry-after should be set: %v", res.RetryAfter)
	}

	// Otra key no comparte la ventana.
	other, _ := l.Allow(ctx, LoginKey("192.0.2.1", "bob"))
	if !other.Allowed {
		t.Fatal("different key should have its own window")
	}
}
