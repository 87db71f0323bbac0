// Package historycache persists one snapshot of the user's run history so
// repeated history lookups within a short window skip the network. The cache
// is strictly an optimization: any doubt about its validity invalidates it,
// and the API remains the source of truth.
package historycache
