package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestManager(t *testing.T) *CacheManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheManager(client)
}

// Every key the progress services write must fall to InvalidateReportCache,
// or an attendance or grade write serves stale reports for the full TTL.
func TestInvalidateReportCache(t *testing.T) {
	ctx := context.Background()
	cm := newTestManager(t)

	seed := []string{
		StudentProgressKey(1),
		StudentProgressKey(2),
		ClassProgressKey("7A", "2026"),
	}
	for _, key := range seed {
		if err := cm.Stats.Set(ctx, key, "cached", time.Minute); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}
	if err := cm.Auth.SetString(ctx, "blacklist:token-1", "revoked", time.Minute); err != nil {
		t.Fatalf("seed auth key: %v", err)
	}

	InvalidateReportCache(ctx, cm, 1)

	if exists, _ := cm.Stats.Exists(ctx, StudentProgressKey(1)); exists {
		t.Error("student 1 progress survived invalidation")
	}
	// Class aggregates include the written student's row.
	if exists, _ := cm.Stats.Exists(ctx, ClassProgressKey("7A", "2026")); exists {
		t.Error("class progress survived invalidation")
	}
	if exists, _ := cm.Stats.Exists(ctx, StudentProgressKey(2)); !exists {
		t.Error("unrelated student's progress was dropped")
	}
	if exists, _ := cm.Auth.Exists(ctx, "blacklist:token-1"); !exists {
		t.Error("auth blacklist entry was dropped")
	}
}

func TestInvalidateReportCacheNilClient(t *testing.T) {
	ctx := context.Background()
	cm := NewCacheManager(nil)

	// Must be a silent no-op when Redis is not configured.
	InvalidateReportCache(ctx, cm, 1)

	if _, err := cm.Stats.Exists(ctx, StudentProgressKey(1)); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Exists() error = %v, want ErrCacheNotAvailable", err)
	}
}
