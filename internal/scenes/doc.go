// Package scenes derives the scene breakdown of an ad from its target
// duration and maps server asset keys back to scene identifiers.
package scenes
