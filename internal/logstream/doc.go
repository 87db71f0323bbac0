// Package logstream follows the live log feed of a generation run over a
// WebSocket. The feed is best-effort color commentary; run completion is
// always decided by polling the status endpoint, never by this stream.
package logstream
