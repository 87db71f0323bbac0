package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ignite/internal/api"
	"ignite/internal/logging"
)

// Regeneration error categories surfaced to the caller. Each failure path
// restores the completed state so the existing video stays usable.
var (
	ErrRegenThrottled           = errors.New("too many regenerations; wait a moment and try again")
	ErrRegenForbidden           = errors.New("this run does not accept regenerations")
	ErrRegenInsufficientCredits = errors.New("not enough credits to regenerate this scene")
)

// ErrNotCompleted is returned when a scene regeneration is requested before
// the run has a completed video to amend.
var ErrNotCompleted = errors.New("lifecycle: run is not in a completed state")

// RegenerateScene redoes one scene of the completed run and re-enters the
// watch loop. On any request failure the controller returns to Completed.
func (c *Controller) RegenerateScene(ctx context.Context, sceneID, prompt string) error {
	sceneID = strings.TrimSpace(sceneID)
	if sceneID == "" {
		return errors.New("lifecycle: scene id is required")
	}

	c.mu.Lock()
	if c.state != StateCompleted {
		c.mu.Unlock()
		return ErrNotCompleted
	}
	runID := c.runID
	title := c.title
	c.setStateLocked(StateRegeneratingScene, "")
	c.mu.Unlock()

	_, err := c.client.RegenerateScene(ctx, runID, sceneID, api.RegenerateSceneRequest{Prompt: prompt})
	if err != nil {
		c.mu.Lock()
		c.setStateLocked(StateCompleted, "")
		c.mu.Unlock()
		return classifyRegenError(err)
	}

	c.logger.Info("scene regeneration accepted",
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldScene, sceneID))
	if err := c.notifier.NotifySceneRegenerated(ctx, title, sceneID); err != nil {
		c.logger.Warn("regeneration notification failed", logging.Error(err))
	}
	c.recordRun(ctx, string(api.StatusRunning))
	c.beginWatch()
	return nil
}

func classifyRegenError(err error) error {
	switch {
	case api.IsThrottled(err):
		return fmt.Errorf("%w: %w", ErrRegenThrottled, err)
	case api.IsForbidden(err):
		return fmt.Errorf("%w: %w", ErrRegenForbidden, err)
	case api.IsPaymentRequired(err):
		return fmt.Errorf("%w: %w", ErrRegenInsufficientCredits, err)
	default:
		return err
	}
}
