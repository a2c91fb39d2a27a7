package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitlog/fitlog/internal/testutil"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	_, client := testutil.NewMiniRedis(t)
	return NewWithClient(client)
}

func TestCache_Ping(t *testing.T) {
	c := newTestCache(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestCheckIPRateLimit_BurstThenDeny(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	for i := 0; i < 3; i++ {
		res, err := c.CheckIPRateLimit(ctx, "10.0.0.1", 1, 3)
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}

	res, err := c.CheckIPRateLimit(ctx, "10.0.0.1", 1, 3)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Allowed {
		t.Fatal("request beyond burst should be denied")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("expected positive RetryAfter, got %s", res.RetryAfter)
	}

	other, err := c.CheckIPRateLimit(ctx, "10.0.0.2", 1, 3)
	if err != nil {
		t.Fatalf("check other ip: %v", err)
	}
	if !other.Allowed {
		t.Error("buckets must be per IP")
	}
}

func TestCheckUserRateLimit_PerAccount(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	res, err := c.CheckUserRateLimit(ctx, "ann@x.com", 1, 1)
	if err != nil || !res.Allowed {
		t.Fatalf("first request should pass: %+v %v", res, err)
	}

	res, err = c.CheckUserRateLimit(ctx, "ann@x.com", 1, 1)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Allowed {
		t.Fatal("second request should exceed a burst of one")
	}

	res, err = c.CheckUserRateLimit(ctx, "bob@x.com", 1, 1)
	if err != nil || !res.Allowed {
		t.Fatalf("other account should have its own bucket: %+v %v", res, err)
	}
}

func TestCheckUserRateLimit_Unlimited(t *testing.T) {
	c := newTestCache(t)

	res, err := c.CheckUserRateLimit(context.Background(), "ann@x.com", 0, 5)
	if err != nil || !res.Allowed {
		t.Fatalf("zero rate means unlimited: %+v %v", res, err)
	}
}

func TestCheckRateLimit_FailsOpen(t *testing.T) {
	mr, client := testutil.NewMiniRedis(t)
	c := NewWithClient(client)
	mr.Close()

	res, err := c.CheckIPRateLimit(context.Background(), "10.0.0.1", 1, 1)
	if err == nil {
		t.Fatal("expected the Redis error to be reported")
	}
	if !res.Allowed {
		t.Fatal("expected an allowing result when Redis is down")
	}
}

func TestResetCode_SingleUse(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	if err := c.SetResetCode(ctx, "ann@x.com", "123456", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	ok, err := c.ConsumeResetCode(ctx, "ann@x.com", "123456")
	if err != nil || !ok {
		t.Fatalf("expected code to match: %v %v", ok, err)
	}

	_, err = c.ConsumeResetCode(ctx, "ann@x.com", "123456")
	if !errors.Is(err, ErrNoResetChallenge) {
		t.Fatalf("expected ErrNoResetChallenge on reuse, got %v", err)
	}
}

func TestResetCode_WrongCodeBurnsAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	if err := c.SetResetCode(ctx, "ann@x.com", "123456", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	for i := 0; i < MaxResetAttempts; i++ {
		ok, err := c.ConsumeResetCode(ctx, "ann@x.com", "000000")
		if err != nil || ok {
			t.Fatalf("attempt %d: expected mismatch, got %v %v", i, ok, err)
		}
	}

	_, err := c.ConsumeResetCode(ctx, "ann@x.com", "123456")
	if !errors.Is(err, ErrNoResetChallenge) {
		t.Fatalf("expected challenge to be burned, got %v", err)
	}
}

func TestResetCode_Expires(t *testing.T) {
	ctx := context.Background()
	mr, client := testutil.NewMiniRedis(t)
	c := NewWithClient(client)

	if err := c.SetResetCode(ctx, "ann@x.com", "123456", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	_, err := c.ConsumeResetCode(ctx, "ann@x.com", "123456")
	if !errors.Is(err, ErrNoResetChallenge) {
		t.Fatalf("expected expired challenge, got %v", err)
	}
}

func TestResetCode_NewCodeReplacesOld(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_ = c.SetResetCode(ctx, "ann@x.com", "111111", time.Minute)
	_ = c.SetResetCode(ctx, "ann@x.com", "222222", time.Minute)

	ok, err := c.ConsumeResetCode(ctx, "ann@x.com", "111111")
	if err != nil || ok {
		t.Fatalf("old code must not match: %v %v", ok, err)
	}
	ok, err = c.ConsumeResetCode(ctx, "ann@x.com", "222222")
	if err != nil || !ok {
		t.Fatalf("new code must match: %v %v", ok, err)
	}
}
