// Package pricing computes the credit cost of a generation run and describes
// the purchasable credit tiers. All arithmetic is integer; there are no
// fractional credits.
package pricing
