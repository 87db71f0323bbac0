package pricing

import (
	"ignite/internal/api"
)

const (
	// CreditsPerScene is the base cost of each rendered scene.
	CreditsPerScene = 2

	// Per-feature increments applied once per run, not per scene.
	generativeBackgroundCost = 2
	premiumTTSCost           = 1
	highResolutionCost       = 1
	premiumImageModelCost    = 1
)

// PremiumImageModel is the image model that carries a surcharge.
const PremiumImageModel = "gemini-3-pro-image-preview"

// Cost returns the credit cost of a run with the given scene count, feature
// selection, and image model.
func Cost(sceneCount int, features api.Features, imageModel string) int {
	if sceneCount <= 0 {
		return 0
	}
	cost := sceneCount * CreditsPerScene
	if features.GenerativeBackground {
		cost += generativeBackgroundCost
	}
	if features.PremiumTTS {
		cost += premiumTTSCost
	}
	if features.HighResolution {
		cost += highResolutionCost
	}
	if imageModel == PremiumImageModel {
		cost += premiumImageModelCost
	}
	return cost
}
