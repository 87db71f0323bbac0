package api

import "testing"

func TestFinalVideoURL(t *testing.T) {
	cases := []struct {
		name   string
		result *RunResult
		want   string
	}{
		{"nil result", nil, ""},
		{"structured", &RunResult{VideoURL: "https://cdn.example.com/final.mp4"}, "https://cdn.example.com/final.mp4"},
		{
			"structured wins over legacy",
			&RunResult{VideoURL: "https://cdn.example.com/final.mp4", Result: "tmp/run-1/final.mp4"},
			"https://cdn.example.com/final.mp4",
		},
		{
			"legacy string",
			&RunResult{Result: "Rendered output written to tmp/run-42/final.mp4 in 93s"},
			"tmp/run-42/final.mp4",
		},
		{"legacy without video", &RunResult{Result: "no artifacts"}, ""},
		{"empty", &RunResult{}, ""},
	}
	for _, tc := range cases {
		if got := tc.result.FinalVideoURL(); got != tc.want {
			t.Errorf("%s: FinalVideoURL = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestMergeAssetsNeverDropsKeys(t *testing.T) {
	existing := map[string]string{
		"Hook_image": "https://cdn.example.com/hook.png",
		"CTA_image":  "https://cdn.example.com/cta.png",
	}
	merged := MergeAssets(existing, map[string]string{
		"Hook_video":    "https://cdn.example.com/hook.mp4",
		"CTA_image":     "https://cdn.example.com/cta-v2.png",
		"Feature_image": "",
	})
	if len(merged) != 3 {
		t.Fatalf("merged has %d keys: %v", len(merged), merged)
	}
	if merged["Hook_image"] == "" {
		t.Error("earlier key dropped")
	}
	if merged["CTA_image"] != "https://cdn.example.com/cta-v2.png" {
		t.Error("newer value did not win")
	}
	if _, ok := merged["Feature_image"]; ok {
		t.Error("empty value should not create a key")
	}
}

func TestMergeAssetsNilReceivers(t *testing.T) {
	if got := MergeAssets(nil, nil); got != nil {
		t.Errorf("MergeAssets(nil, nil) = %v", got)
	}
	merged := MergeAssets(nil, map[string]string{"Hook_image": "u"})
	if merged["Hook_image"] != "u" {
		t.Errorf("merge into nil map failed: %v", merged)
	}
}
