package historycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"ignite/internal/api"
	"ignite/internal/logging"
)

// Version is bumped whenever the snapshot layout changes; snapshots written
// by other versions are treated as misses.
const Version = 1

const lockTimeout = 2 * time.Second

// snapshot is the on-disk layout.
type snapshot struct {
	UserID    string    `json:"user_id"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Runs      []api.Run `json:"runs"`
}

// Cache is a single-snapshot history cache backed by one JSON file.
type Cache struct {
	path   string
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a cache at path with the given time-to-live.
func New(path string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("historycache: path is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("historycache: ttl must be positive")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("historycache: create cache dir: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cache{path: path, ttl: ttl, logger: logger}, nil
}

// Get returns the cached runs when the snapshot belongs to userID, matches
// the current layout version, and is younger than the TTL. Any mismatch
// removes the snapshot and reports a miss.
func (c *Cache) Get(userID string) ([]api.Run, bool) {
	unlock, err := c.lock()
	if err != nil {
		return nil, false
	}
	defer unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.removeLocked("unreadable snapshot")
		return nil, false
	}
	switch {
	case snap.Version != Version:
		c.removeLocked("version mismatch")
		return nil, false
	case snap.UserID != userID:
		c.removeLocked("user mismatch")
		return nil, false
	case time.Since(snap.Timestamp) > c.ttl:
		c.removeLocked("expired")
		return nil, false
	}
	return snap.Runs, true
}

// Set replaces the snapshot with the given runs for userID. A write failure
// invalidates the cache rather than leaving a stale snapshot behind.
func (c *Cache) Set(userID string, runs []api.Run) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("historycache: user id is required")
	}
	unlock, err := c.lock()
	if err != nil {
		return err
	}
	defer unlock()

	snap := snapshot{
		UserID:    userID,
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Runs:      runs,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		c.removeLocked("encode failure")
		return fmt.Errorf("historycache: encode snapshot: %w", err)
	}
	if err := writeFileAtomic(c.path, data, 0o644); err != nil {
		c.removeLocked("write failure")
		return fmt.Errorf("historycache: %w", err)
	}
	return nil
}

// Invalidate removes the snapshot unconditionally.
func (c *Cache) Invalidate() {
	unlock, err := c.lock()
	if err != nil {
		return
	}
	defer unlock()
	c.removeLocked("explicit invalidation")
}

// InvalidateForRun removes the snapshot when it contains (or should contain)
// the given run, so the next history read reflects the run's new state.
func (c *Cache) InvalidateForRun(runID string) {
	if strings.TrimSpace(runID) == "" {
		return
	}
	c.Invalidate()
}

func (c *Cache) removeLocked(reason string) {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("history cache remove failed",
			logging.String("reason", reason), logging.Error(err))
		return
	}
	c.logger.Debug("history cache invalidated", logging.String("reason", reason))
}

func (c *Cache) lock() (func(), error) {
	lock := flock.New(c.path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	ok, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("historycache: acquire lock: %w", err)
	}
	if !ok {
		return nil, errors.New("historycache: cache is locked by another process")
	}
	return func() { lock.Unlock() }, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "history-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
