package runstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertInsertsAndUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, Run{
		RunID:  "run-1",
		UserID: "user-1",
		Status: "queued",
		Prompt: "coffee ad",
		Title:  "Summer Launch",
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	run, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if run == nil || run.Status != "queued" {
		t.Fatalf("run = %+v", run)
	}
	created := run.CreatedAt

	if err := store.Upsert(ctx, Run{
		RunID:    "run-1",
		UserID:   "user-1",
		Status:   "completed",
		VideoURL: "https://cdn.example.com/final.mp4",
	}); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	run, err = store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if run.Status != "completed" {
		t.Errorf("Status = %q", run.Status)
	}
	if run.Prompt != "coffee ad" {
		t.Errorf("prompt lost on update: %q", run.Prompt)
	}
	if run.VideoURL != "https://cdn.example.com/final.mp4" {
		t.Errorf("VideoURL = %q", run.VideoURL)
	}
	if !run.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on update: %v -> %v", created, run.CreatedAt)
	}
}

func TestGetUnknownRun(t *testing.T) {
	store := newTestStore(t)
	run, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if run != nil {
		t.Errorf("run = %+v, want nil", run)
	}
}

func TestRecentOrdersByUpdateAndFiltersByUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"run-1", "run-2", "run-3"} {
		if err := store.Upsert(ctx, Run{RunID: id, UserID: "user-1", Status: "completed"}); err != nil {
			t.Fatalf("Upsert %s failed: %v", id, err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	if err := store.Upsert(ctx, Run{RunID: "other", UserID: "user-2", Status: "failed"}); err != nil {
		t.Fatalf("Upsert other failed: %v", err)
	}

	runs, err := store.Recent(ctx, "user-1", 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].RunID != "run-3" || runs[1].RunID != "run-2" {
		t.Errorf("order = %s, %s", runs[0].RunID, runs[1].RunID)
	}
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, status := range []string{"completed", "completed", "failed"} {
		run := Run{RunID: string(rune('a' + i)), UserID: "user-1", Status: status}
		if err := store.Upsert(ctx, run); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["completed"] != 2 || stats["failed"] != 1 {
		t.Errorf("stats = %v", stats)
	}
}

func TestUpsertRequiresIdentifiers(t *testing.T) {
	store := newTestStore(t)
	if err := store.Upsert(context.Background(), Run{UserID: "user-1"}); err == nil {
		t.Error("expected error for missing run id")
	}
	if err := store.Upsert(context.Background(), Run{RunID: "run-1"}); err == nil {
		t.Error("expected error for missing user id")
	}
}
