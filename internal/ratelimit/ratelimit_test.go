package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewLimiter(client, limit, window), mr
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	limiter, _ := setupLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Allow error on request %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("request %d denied under the limit", i)
		}
	}

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow error: %v", err)
	}
	if allowed {
		t.Error("request over the limit was allowed")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := setupLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "10.0.0.1"); !allowed {
		t.Fatal("first request for key A denied")
	}
	if allowed, _ := limiter.Allow(ctx, "10.0.0.2"); !allowed {
		t.Error("first request for key B denied after key A was limited")
	}
}

func TestLimiterWindowExpires(t *testing.T) {
	limiter, mr := setupLimiter(t, 1, time.Second)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "10.0.0.1"); !allowed {
		t.Fatal("first request denied")
	}
	if allowed, _ := limiter.Allow(ctx, "10.0.0.1"); allowed {
		t.Fatal("second request in the same window allowed")
	}

	mr.FastForward(2 * time.Second)

	if allowed, _ := limiter.Allow(ctx, "10.0.0.1"); !allowed {
		t.Error("request denied after the window expired")
	}
}

func TestLimiterSurfacesRedisFailure(t *testing.T) {
	limiter, mr := setupLimiter(t, 1, time.Minute)
	mr.Close()

	if _, err := limiter.Allow(context.Background(), "10.0.0.1"); err == nil {
		t.Error("Allow returned no error with redis down")
	}
}
