package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewLimiter(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "caller-1")
		if err != nil {
			t.Fatalf("unexpected error on request %d: %v", i+1, err)
		}
		if !allowed {
			t.Errorf("request %d should be allowed", i+1)
		}
	}
}

func TestLimiter_DeniesOverLimit(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewLimiter(client, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := limiter.Allow(ctx, "caller-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	allowed, err := limiter.Allow(ctx, "caller-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Error("request over the limit should be denied")
	}
}

func TestLimiter_WindowResets(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewLimiter(client, 1, time.Second)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "caller-1"); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _ := limiter.Allow(ctx, "caller-1"); allowed {
		t.Fatal("second request in the window should be denied")
	}

	mr.FastForward(2 * time.Second)

	allowed, err := limiter.Allow(ctx, "caller-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("budget should reset after the window expires")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewLimiter(client, 1, time.Minute)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "caller-1"); !allowed {
		t.Fatal("first caller should be allowed")
	}
	if allowed, _ := limiter.Allow(ctx, "caller-1"); allowed {
		t.Fatal("first caller should be exhausted")
	}

	allowed, err := limiter.Allow(ctx, "caller-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("second caller has its own budget")
	}
}

func TestLimiter_FailsOpen(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	cleanup()

	limiter := NewLimiter(client, 1, time.Minute)

	allowed, err := limiter.Allow(context.Background(), "caller-1")
	if err == nil {
		t.Error("expected error when redis is unreachable")
	}
	if !allowed {
		t.Error("an unreachable backend must not block requests")
	}
}

func TestLimiter_Ping(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewLimiter(client, 1, time.Minute)
	if err := limiter.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}
