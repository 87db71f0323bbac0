package notifications

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ignite/internal/config"
)

func newTestService(t *testing.T, completion, failure bool) (Service, *[]recordedPush) {
	t.Helper()
	var pushes []recordedPush
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		pushes = append(pushes, recordedPush{
			Title:    r.Header.Get("Title"),
			Priority: r.Header.Get("Priority"),
			Message:  string(body),
		})
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Completion = completion
	cfg.Notifications.Failure = failure
	return NewService(&cfg), &pushes
}

type recordedPush struct {
	Title    string
	Priority string
	Message  string
}

func TestNewServiceReturnsNoopWithoutTopic(t *testing.T) {
	cfg := config.Default()
	service := NewService(&cfg)
	if _, ok := service.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", service)
	}
	if err := service.NotifyRunCompleted(context.Background(), "x", time.Minute); err != nil {
		t.Errorf("noop notify returned %v", err)
	}
}

func TestNotifyRunCompleted(t *testing.T) {
	service, pushes := newTestService(t, true, true)
	if err := service.NotifyRunCompleted(context.Background(), "Summer Launch", 93*time.Second); err != nil {
		t.Fatalf("NotifyRunCompleted failed: %v", err)
	}
	if len(*pushes) != 1 {
		t.Fatalf("got %d pushes, want 1", len(*pushes))
	}
	push := (*pushes)[0]
	if push.Title != "Ignite - Video Ready" {
		t.Errorf("title = %q", push.Title)
	}
	if push.Priority != "high" {
		t.Errorf("priority = %q", push.Priority)
	}
	if !strings.Contains(push.Message, "Summer Launch") || !strings.Contains(push.Message, "1m33s") {
		t.Errorf("message = %q", push.Message)
	}
}

func TestCompletionToggleSuppressesPush(t *testing.T) {
	service, pushes := newTestService(t, false, true)
	if err := service.NotifyRunCompleted(context.Background(), "x", time.Minute); err != nil {
		t.Fatalf("NotifyRunCompleted failed: %v", err)
	}
	if len(*pushes) != 0 {
		t.Errorf("completion push sent despite toggle: %+v", *pushes)
	}
	if err := service.NotifyRunFailed(context.Background(), "x", "boom"); err != nil {
		t.Fatalf("NotifyRunFailed failed: %v", err)
	}
	if len(*pushes) != 1 {
		t.Errorf("failure push missing: %+v", *pushes)
	}
}

func TestNotifyRunFailedDefaultsReason(t *testing.T) {
	service, pushes := newTestService(t, true, true)
	if err := service.NotifyRunFailed(context.Background(), "x", "  "); err != nil {
		t.Fatalf("NotifyRunFailed failed: %v", err)
	}
	if !strings.Contains((*pushes)[0].Message, "unknown") {
		t.Errorf("message = %q", (*pushes)[0].Message)
	}
}

func TestSendReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	service := NewService(&cfg)
	err := service.TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected ntfy error, got %v", err)
	}
}
