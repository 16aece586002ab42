package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestIdempotencyKey(t *testing.T) {
	if got := idempotencyKey("abc"); got != "idempotency:accounts:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestNewIdempotencyStore_DefaultTTL(t *testing.T) {
	s := NewIdempotencyStore(nil, 0)
	if s.ttl != DefaultIdempotencyTTL {
		t.Fatalf("expected default ttl, got %v", s.ttl)
	}
	s = NewIdempotencyStore(nil, time.Minute)
	if s.ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", s.ttl)
	}
}

// The remaining tests talk to a real server and run only when
// REDIS_TEST_ADDR is set.
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIdempotencyStore_LookupMissing(t *testing.T) {
	s := NewIdempotencyStore(testClient(t), time.Minute)

	_, found, err := s.Lookup(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found {
		t.Fatal("expected key to be absent")
	}
}

func TestIdempotencyStore_FirstWriterWins(t *testing.T) {
	client := testClient(t)
	s := NewIdempotencyStore(client, time.Minute)
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, idempotencyKey(key)) })

	if err := s.Remember(ctx, key, 7); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if err := s.Remember(ctx, key, 8); err != nil {
		t.Fatalf("second remember: %v", err)
	}

	id, found, err := s.Lookup(ctx, key)
	if err != nil || !found {
		t.Fatalf("lookup: found=%v err=%v", found, err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}

	ttl := client.TTL(ctx, idempotencyKey(key)).Val()
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestIdempotencyStore_MalformedValue(t *testing.T) {
	client := testClient(t)
	s := NewIdempotencyStore(client, time.Minute)
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, idempotencyKey(key)) })

	client.Set(ctx, idempotencyKey(key), "not-a-number", time.Minute)
	if _, _, err := s.Lookup(ctx, key); err == nil {
		t.Fatal("expected error for malformed value")
	}
}
