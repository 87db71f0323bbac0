package lifecycle

import (
	"context"
	"time"

	"ignite/internal/api"
	"ignite/internal/logging"
	"ignite/internal/logstream"
)

// beginWatch spawns the poll loop and, when a follower is configured, the
// log stream. Callers must hold no locks. Any previous watch must already be
// torn down; Start and RegenerateScene guarantee that via state checks.
func (c *Controller) beginWatch() {
	ctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.cancel != nil {
		// Re-entry tears the previous watch down first.
		c.cancel()
	}
	c.cancel = cancel
	runID := c.runID
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.watch(ctx, runID)
	}()

	if c.logs != nil {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.followLogs(ctx, runID)
		}()
	}
}

// endWatch cancels the watch context so the poll loop and the log stream tear
// down together. Every terminal transition goes through here; leaving the
// socket open would keep Wait blocked long after the run is done.
func (c *Controller) endWatch() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Controller) watch(ctx context.Context, runID string) {
	deadline := c.now().Add(c.pollCeiling)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	// First poll happens immediately so a fast run is not invisible for a
	// whole interval.
	if done := c.pollOnce(ctx, runID); done {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if !c.now().Before(deadline) {
			c.timeOut(ctx, runID)
			return
		}
		if done := c.pollOnce(ctx, runID); done {
			return
		}
	}
}

// pollOnce fetches status once and applies it. Returns true when the run
// reached a terminal state.
func (c *Controller) pollOnce(ctx context.Context, runID string) bool {
	resp, err := c.client.Status(ctx, runID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		// Transient poll errors never fail the run; the next tick retries.
		c.logger.Warn("status poll failed",
			logging.String(logging.FieldRunID, runID), logging.Error(err))
		return false
	}
	return c.applyStatus(ctx, resp)
}

func (c *Controller) applyStatus(ctx context.Context, resp api.StatusResponse) bool {
	status := api.ParseRunStatus(resp.Status)

	c.mu.Lock()
	before := len(c.assets)
	c.assets = api.MergeAssets(c.assets, resp.Assets)
	if resp.Result != nil {
		c.assets = api.MergeAssets(c.assets, resp.Result.RemoteAssets)
		if len(resp.Result.ScenesList) > 0 {
			c.scenes = resp.Result.ScenesList
		}
		// First write wins: a regeneration must not clobber the URL the
		// user already received.
		if c.finalVideoURL == "" {
			c.finalVideoURL = resp.Result.FinalVideoURL()
		}
	}
	grew := len(c.assets) > before
	runID := c.runID

	switch status {
	case api.StatusCompleted:
		c.setStateLocked(StateCompleted, "")
	case api.StatusFailed:
		c.setStateLocked(StateFailed, resp.FailureReason)
	default:
		if c.state == StateStarting {
			c.setStateLocked(StateBackgroundProcessing, "")
		}
	}
	title := c.title
	reason := c.failureReason
	started := c.startedAt
	c.mu.Unlock()

	if grew {
		c.emit(Event{Kind: EventAssetUpdated, State: c.State(), RunID: runID})
	}

	switch status {
	case api.StatusCompleted:
		c.recordRun(ctx, string(api.StatusCompleted))
		if err := c.notifier.NotifyRunCompleted(ctx, title, elapsedSince(c.now, started)); err != nil {
			c.logger.Warn("completion notification failed", logging.Error(err))
		}
		c.endWatch()
		return true
	case api.StatusFailed:
		c.recordRun(ctx, string(api.StatusFailed))
		if err := c.notifier.NotifyRunFailed(ctx, title, reason); err != nil {
			c.logger.Warn("failure notification failed", logging.Error(err))
		}
		c.endWatch()
		return true
	default:
		return false
	}
}

func (c *Controller) timeOut(ctx context.Context, runID string) {
	c.mu.Lock()
	c.setStateLocked(StateTimedOut, "watch ceiling reached")
	title := c.title
	c.mu.Unlock()

	c.logger.Warn("run watch timed out",
		logging.String(logging.FieldRunID, runID),
		logging.Duration("ceiling", c.pollCeiling))
	c.recordRun(ctx, string(StateTimedOut))
	if err := c.notifier.NotifyRunTimedOut(ctx, title, c.pollCeiling); err != nil {
		c.logger.Warn("timeout notification failed", logging.Error(err))
	}
	c.endWatch()
}

func (c *Controller) followLogs(ctx context.Context, runID string) {
	err := c.logs.Follow(ctx, runID, func(line logstream.Line) {
		if line.Friendly != "" {
			c.mu.Lock()
			c.lastFriendly = line.Friendly
			c.mu.Unlock()
		}
		c.emit(Event{Kind: EventLogLine, State: c.State(), RunID: runID, Message: line.Text})
	})
	if err != nil && ctx.Err() == nil {
		// The stream is commentary only; losing it never fails the run.
		c.logger.Warn("log stream ended",
			logging.String(logging.FieldRunID, runID), logging.Error(err))
	}
}
