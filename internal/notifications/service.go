package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ignite/internal/config"
)

const userAgent = "Ignite/0.1.0"

// Service defines the notification surface exposed to the lifecycle
// controller and the CLI.
type Service interface {
	NotifyRunStarted(ctx context.Context, title string, creditCost int) error
	NotifyRunCompleted(ctx context.Context, title string, elapsed time.Duration) error
	NotifyRunFailed(ctx context.Context, title, reason string) error
	NotifyRunTimedOut(ctx context.Context, title string, ceiling time.Duration) error
	NotifySceneRegenerated(ctx context.Context, title, scene string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := cfg.NotifyTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		completion: cfg.Notifications.Completion,
		failure:    cfg.Notifications.Failure,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	completion bool
	failure    bool
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, title string, creditCost int) error {
	title = strings.TrimSpace(title)
	data := payload{
		title:   "Ignite - Run Started",
		message: fmt.Sprintf("Generating %q (%d credits)", title, creditCost),
		tags:    []string{"ignite", "run", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, title string, elapsed time.Duration) error {
	if !n.completion {
		return nil
	}
	title = strings.TrimSpace(title)
	elapsed = elapsed.Round(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	data := payload{
		title:    "Ignite - Video Ready",
		message:  fmt.Sprintf("Your ad %q is ready (took %s)", title, elapsed),
		tags:     []string{"ignite", "run", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, title, reason string) error {
	if !n.failure {
		return nil
	}
	title = strings.TrimSpace(title)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown"
	}
	data := payload{
		title:    "Ignite - Run Failed",
		message:  fmt.Sprintf("Generation of %q failed: %s", title, reason),
		tags:     []string{"ignite", "run", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunTimedOut(ctx context.Context, title string, ceiling time.Duration) error {
	if !n.failure {
		return nil
	}
	title = strings.TrimSpace(title)
	data := payload{
		title:    "Ignite - Run Timed Out",
		message:  fmt.Sprintf("Gave up waiting for %q after %s; the run may still finish server-side", title, ceiling.Round(time.Second)),
		tags:     []string{"ignite", "run", "timeout"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySceneRegenerated(ctx context.Context, title, scene string) error {
	if !n.completion {
		return nil
	}
	data := payload{
		title:   "Ignite - Scene Updated",
		message: fmt.Sprintf("Scene %s of %q was regenerated", strings.TrimSpace(scene), strings.TrimSpace(title)),
		tags:    []string{"ignite", "scene", "regenerated"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Ignite - Test",
		message:  "Notification system test",
		tags:     []string{"ignite", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// NewNoop returns a Service that drops every notification.
func NewNoop() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string, int) error { return nil }

func (noopService) NotifyRunCompleted(context.Context, string, time.Duration) error { return nil }

func (noopService) NotifyRunFailed(context.Context, string, string) error { return nil }

func (noopService) NotifyRunTimedOut(context.Context, string, time.Duration) error { return nil }

func (noopService) NotifySceneRegenerated(context.Context, string, string) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }
