// Package auth supplies bearer tokens for API calls. Privileged operations
// fetch a fresh token per call rather than caching one for the whole session,
// so a revoked session fails fast instead of at the end of a long run.
package auth
