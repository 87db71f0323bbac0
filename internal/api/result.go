package api

import "regexp"

// Older backend builds reported the final video only as free text inside
// Result, e.g. "Rendered output written to tmp/run-42/final.mp4". The
// structured video_url field replaced that, but completed runs from before
// the cutover still come back in the old shape.
var legacyVideoPath = regexp.MustCompile(`tmp/[^\s"']*\.mp4`)

// FinalVideoURL returns the best known final video reference: the structured
// video_url when present, otherwise the path salvaged from the legacy result
// string. Empty when the run produced no video.
func (r *RunResult) FinalVideoURL() string {
	if r == nil {
		return ""
	}
	if r.VideoURL != "" {
		return r.VideoURL
	}
	return legacyVideoPath.FindString(r.Result)
}

// MergeAssets folds newer asset keys into existing without dropping entries
// that the newer payload omitted. Later values win for keys present in both.
func MergeAssets(existing, update map[string]string) map[string]string {
	if len(update) == 0 {
		return existing
	}
	if existing == nil {
		existing = make(map[string]string, len(update))
	}
	for key, value := range update {
		if value == "" {
			continue
		}
		existing[key] = value
	}
	return existing
}
