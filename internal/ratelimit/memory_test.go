package ratelimit

import (
	"context"
	"testing"
)

func TestMemoryLimiterBurstThenDeny(t *testing.T) {
	limiter := newMemoryLimiter(0.001, 3)

	for i := 0; i < 3; i++ {
		if res := limiter.Allow("buyer@mail.test"); !res.Allowed {
			t.Fatalf("expected request %d within burst to pass", i)
		}
	}
	res := limiter.Allow("buyer@mail.test")
	if res.Allowed {
		t.Fatalf("expected request beyond burst to be denied")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("expected positive retry-after, got %v", res.RetryAfter)
	}
}

func TestMemoryLimiterKeysIsolated(t *testing.T) {
	limiter := newMemoryLimiter(0.001, 1)

	if res := limiter.Allow("alice@mail.test"); !res.Allowed {
		t.Fatalf("expected first alice request to pass")
	}
	if res := limiter.Allow("alice@mail.test"); res.Allowed {
		t.Fatalf("expected second alice request denied")
	}
	if res := limiter.Allow("bob@mail.test"); !res.Allowed {
		t.Fatalf("expected bob unaffected by alice bucket")
	}
}

func TestOrderLimiterDisabledAllowsAll(t *testing.T) {
	limiter := &OrderLimiter{enabled: false}
	for i := 0; i < 100; i++ {
		if res := limiter.Allow(context.Background(), "buyer@mail.test"); !res.Allowed {
			t.Fatalf("disabled limiter must always allow")
		}
	}
}
