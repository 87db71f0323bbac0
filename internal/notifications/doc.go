// Package notifications pushes run milestones to an ntfy topic. Generation
// runs take minutes, so a phone ping when the video is ready (or the run
// died) beats watching a terminal.
package notifications
