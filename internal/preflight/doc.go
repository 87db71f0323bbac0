// Package preflight validates a generation request before any credits are at
// stake. Checks that fail here stop the run without touching the network.
package preflight
