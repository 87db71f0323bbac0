// Package client wraps the IgniteAI REST API. Every call fetches a bearer
// token from its TokenSource, tags the request with an X-Request-ID, and maps
// non-2xx responses to api.StatusError so callers can branch on status codes.
package client
