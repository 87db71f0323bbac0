package logstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"ignite/internal/auth"
)

var upgrader = websocket.Upgrader{}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	tokens, err := auth.NewStaticSource("tok")
	if err != nil {
		t.Fatalf("NewStaticSource failed: %v", err)
	}
	c, err := New(Config{
		WSURL:  "ws" + strings.TrimPrefix(server.URL, "http"),
		Tokens: tokens,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestFollowDeliversAndClassifiesLines(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/logs/run-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("token"); got != "tok" {
			t.Errorf("token = %q", got)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade failed: %v", err)
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte("Generating script for scene Hook"))
		conn.WriteMessage(websocket.TextMessage, []byte("Error: render worker crashed"))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	})

	var lines []Line
	err := c.Follow(context.Background(), "run-1", func(line Line) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Level != LevelInfo || lines[0].Friendly != "Writing the script..." {
		t.Errorf("first line = %+v", lines[0])
	}
	if lines[1].Level != LevelError || lines[1].Friendly != "Hit a snag, retrying..." {
		t.Errorf("second line = %+v", lines[1])
	}
}

func TestFollowPolicyViolation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade failed: %v", err)
		}
		defer conn.Close()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad token"))
	})

	err := c.Follow(context.Background(), "run-1", func(Line) {})
	if !errors.Is(err, ErrPolicyViolation) {
		t.Fatalf("expected ErrPolicyViolation, got %v", err)
	}
}

func TestFollowStopsOnContextCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade failed: %v", err)
		}
		defer conn.Close()
		// Hold the connection open without sending anything.
		conn.ReadMessage()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	if err := c.Follow(ctx, "run-1", func(Line) {}); err != nil {
		t.Fatalf("Follow after cancel = %v, want nil", err)
	}
}

func TestFriendlyStatus(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Generating script", "Writing the script..."},
		{"rendering image for Hook", "Dreaming up visuals..."},
		{"stitching video segments", "Shooting the scenes..."},
		{"mixing audio track", "Composing the soundtrack..."},
		{"selected music bed", "Composing the soundtrack..."},
		{"upload to bucket complete", "Uploading assets..."},
		{"worker heartbeat", ""},
	}
	for _, tc := range cases {
		if got := FriendlyStatus(tc.text, false); got != tc.want {
			t.Errorf("FriendlyStatus(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
	if got := FriendlyStatus("anything", true); got != "Hit a snag, retrying..." {
		t.Errorf("error mapping = %q", got)
	}
}
