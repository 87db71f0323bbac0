// Package api defines the wire types of the IgniteAI generation API and the
// typed errors its status codes map to. The client package produces these
// values; the lifecycle controller and the CLI consume them.
package api
