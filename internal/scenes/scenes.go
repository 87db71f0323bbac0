package scenes

import "strings"

// Scene identifiers in narrative order. Plans are always drawn from this
// list, and every plan ends with the call to action.
const (
	Hook        = "Hook"
	Feature     = "Feature"
	Lifestyle   = "Lifestyle"
	Benefit     = "Benefit"
	SocialProof = "SocialProof"
	CTA         = "CTA"
)

// SecondsPerScene is the fixed per-scene duration the pipeline renders.
const SecondsPerScene = 5

var allScenes = []string{Hook, Feature, Lifestyle, Benefit, SocialProof, CTA}

// Count returns how many scenes a video of the given duration holds.
// Durations below one scene round down to zero.
func Count(durationSeconds int) int {
	if durationSeconds < SecondsPerScene {
		return 0
	}
	return durationSeconds / SecondsPerScene
}

// Plan returns the scene identifiers for a video with n scenes. Plans of up
// to three scenes use the short arc (hook, feature, close); longer plans walk
// the full narrative order and swap the last slot for the call to action.
func Plan(n int) []string {
	if n <= 0 {
		return nil
	}
	if n <= 3 {
		return []string{Hook, Feature, CTA}
	}
	if n > len(allScenes) {
		n = len(allScenes)
	}
	plan := make([]string, 0, n)
	plan = append(plan, allScenes[:n-1]...)
	plan = append(plan, CTA)
	return plan
}

// PlanForDuration combines Count and Plan.
func PlanForDuration(durationSeconds int) []string {
	return Plan(Count(durationSeconds))
}

// AssetKind is the suffix of a scene asset key.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetVideo AssetKind = "video"
)

// ParseAssetKey splits an asset key like "Hook_image" or "CTA_video" into
// its scene and kind. Keys without a known kind suffix are rejected.
func ParseAssetKey(key string) (scene string, kind AssetKind, ok bool) {
	idx := strings.LastIndex(key, "_")
	if idx <= 0 || idx == len(key)-1 {
		return "", "", false
	}
	scene = key[:idx]
	switch AssetKind(key[idx+1:]) {
	case AssetImage:
		return scene, AssetImage, true
	case AssetVideo:
		return scene, AssetVideo, true
	default:
		return "", "", false
	}
}

// AssetKey builds the canonical asset key for a scene and kind.
func AssetKey(scene string, kind AssetKind) string {
	return scene + "_" + string(kind)
}

// Known reports whether id is one of the defined scene identifiers.
func Known(id string) bool {
	for _, s := range allScenes {
		if s == id {
			return true
		}
	}
	return false
}
