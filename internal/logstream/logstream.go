package logstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"ignite/internal/auth"
	"ignite/internal/logging"
)

const (
	dialTimeout  = 10 * time.Second
	readDeadline = 2 * time.Minute
)

// Level classifies a line from the feed.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Line is one message from the run's log feed.
type Line struct {
	RunID    string
	Text     string
	Level    Level
	Friendly string
	At       time.Time
}

// ErrPolicyViolation is returned when the server closes the socket with close
// code 1008, which it uses for bad or expired tokens.
var ErrPolicyViolation = errors.New("logstream: connection rejected (check token)")

// Config describes a log stream client.
type Config struct {
	// WSURL is the WebSocket base, e.g. "wss://api.igniteai.app".
	WSURL  string
	Tokens auth.TokenSource
	Logger *slog.Logger
}

// Client dials run log feeds.
type Client struct {
	wsURL  string
	tokens auth.TokenSource
	logger *slog.Logger
}

// New creates a log stream client.
func New(cfg Config) (*Client, error) {
	wsURL := strings.TrimRight(strings.TrimSpace(cfg.WSURL), "/")
	if wsURL == "" {
		return nil, errors.New("logstream: ws url is required")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("logstream: token source is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{wsURL: wsURL, tokens: cfg.Tokens, logger: logger}, nil
}

// Follow connects to the run's feed and delivers each line to handle until
// the stream ends, the context is cancelled, or the connection drops. A
// server-side policy close maps to ErrPolicyViolation; a normal close or
// cancelled context returns nil.
func (c *Client) Follow(ctx context.Context, runID string, handle func(Line)) error {
	if strings.TrimSpace(runID) == "" {
		return errors.New("logstream: run id is required")
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/ws/logs/%s?token=%s", c.wsURL, url.PathEscape(runID), url.QueryEscape(token))

	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("logstream: dial: %w", err)
	}
	defer conn.Close()

	c.logger.Debug("log stream connected", logging.String(logging.FieldRunID, runID))

	// Unblock ReadMessage when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
				return ErrPolicyViolation
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("logstream: read: %w", err)
		}
		handle(classify(runID, string(payload)))
	}
}

// Error lines arrive as plain text with an "Error:" prefix.
const errorPrefix = "Error:"

func classify(runID, text string) Line {
	line := Line{RunID: runID, Text: text, At: time.Now()}
	if strings.HasPrefix(strings.TrimSpace(text), errorPrefix) {
		line.Level = LevelError
	}
	line.Friendly = FriendlyStatus(text, line.Level == LevelError)
	return line
}
