package historycache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ignite/internal/api"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history_cache.json")
	cache, err := New(path, ttl, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return cache
}

func sampleRuns() []api.Run {
	return []api.Run{
		{RunID: "run-2", Status: "completed", Prompt: "coffee ad"},
		{RunID: "run-1", Status: "failed", Prompt: "old attempt"},
	}
}

func TestSetThenGet(t *testing.T) {
	cache := newTestCache(t, time.Minute)
	if err := cache.Set("user-1", sampleRuns()); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	runs, ok := cache.Get("user-1")
	if !ok {
		t.Fatal("expected a hit")
	}
	if len(runs) != 2 || runs[0].RunID != "run-2" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestGetMissOnEmptyCache(t *testing.T) {
	cache := newTestCache(t, time.Minute)
	if _, ok := cache.Get("user-1"); ok {
		t.Error("expected a miss on empty cache")
	}
}

func TestGetInvalidatesOnUserMismatch(t *testing.T) {
	cache := newTestCache(t, time.Minute)
	if err := cache.Set("user-1", sampleRuns()); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := cache.Get("user-2"); ok {
		t.Fatal("expected a miss for another user")
	}
	// The mismatch must have removed the snapshot entirely.
	if _, ok := cache.Get("user-1"); ok {
		t.Error("snapshot survived a user mismatch")
	}
}

func TestGetInvalidatesOnExpiry(t *testing.T) {
	cache := newTestCache(t, 50*time.Millisecond)
	if err := cache.Set("user-1", sampleRuns()); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(80 * time.Millisecond)
	if _, ok := cache.Get("user-1"); ok {
		t.Error("expected a miss after expiry")
	}
	if _, err := os.Stat(cache.path); !os.IsNotExist(err) {
		t.Error("expired snapshot not removed")
	}
}

func TestGetInvalidatesOnVersionMismatch(t *testing.T) {
	cache := newTestCache(t, time.Minute)
	snap := map[string]any{
		"user_id":   "user-1",
		"version":   Version + 1,
		"timestamp": time.Now().UTC(),
		"runs":      sampleRuns(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if err := os.WriteFile(cache.path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, ok := cache.Get("user-1"); ok {
		t.Error("expected a miss on a newer snapshot version")
	}
}

func TestGetInvalidatesOnCorruptSnapshot(t *testing.T) {
	cache := newTestCache(t, time.Minute)
	if err := os.WriteFile(cache.path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, ok := cache.Get("user-1"); ok {
		t.Error("expected a miss on corrupt snapshot")
	}
	if _, err := os.Stat(cache.path); !os.IsNotExist(err) {
		t.Error("corrupt snapshot not removed")
	}
}

func TestSetOverwritesPreviousSnapshot(t *testing.T) {
	cache := newTestCache(t, time.Minute)
	if err := cache.Set("user-1", sampleRuns()); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Set("user-1", []api.Run{{RunID: "run-3", Status: "queued"}}); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}
	runs, ok := cache.Get("user-1")
	if !ok {
		t.Fatal("expected a hit")
	}
	if len(runs) != 1 || runs[0].RunID != "run-3" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestInvalidateForRun(t *testing.T) {
	cache := newTestCache(t, time.Minute)
	if err := cache.Set("user-1", sampleRuns()); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	cache.InvalidateForRun("run-2")
	if _, ok := cache.Get("user-1"); ok {
		t.Error("expected a miss after run invalidation")
	}
}

func TestInvalidateIsIdempotent(t *testing.T) {
	cache := newTestCache(t, time.Minute)
	cache.Invalidate()
	cache.Invalidate()
	if _, ok := cache.Get("user-1"); ok {
		t.Error("expected a miss")
	}
}
