package logstream

import "strings"

// FriendlyStatus condenses a raw pipeline log line into a short progress
// message suitable for a status line. Unrecognized lines keep the previous
// message by returning "".
func FriendlyStatus(text string, isError bool) string {
	if isError {
		return "Hit a snag, retrying..."
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "script"):
		return "Writing the script..."
	case strings.Contains(lower, "image"):
		return "Dreaming up visuals..."
	case strings.Contains(lower, "video"):
		return "Shooting the scenes..."
	case strings.Contains(lower, "audio"), strings.Contains(lower, "music"):
		return "Composing the soundtrack..."
	case strings.Contains(lower, "upload"):
		return "Uploading assets..."
	default:
		return ""
	}
}
