package scenes

import (
	"reflect"
	"testing"
)

func TestCount(t *testing.T) {
	cases := []struct {
		duration int
		want     int
	}{
		{0, 0},
		{4, 0},
		{5, 1},
		{14, 2},
		{15, 3},
		{20, 4},
		{30, 6},
	}
	for _, tc := range cases {
		if got := Count(tc.duration); got != tc.want {
			t.Errorf("Count(%d) = %d, want %d", tc.duration, got, tc.want)
		}
	}
}

func TestPlan(t *testing.T) {
	cases := []struct {
		n    int
		want []string
	}{
		{0, nil},
		{1, []string{Hook, Feature, CTA}},
		{3, []string{Hook, Feature, CTA}},
		{4, []string{Hook, Feature, Lifestyle, CTA}},
		{5, []string{Hook, Feature, Lifestyle, Benefit, CTA}},
		{6, []string{Hook, Feature, Lifestyle, Benefit, SocialProof, CTA}},
		{9, []string{Hook, Feature, Lifestyle, Benefit, SocialProof, CTA}},
	}
	for _, tc := range cases {
		if got := Plan(tc.n); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Plan(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

func TestPlanAlwaysEndsWithCTA(t *testing.T) {
	for n := 1; n <= 8; n++ {
		plan := Plan(n)
		if plan[len(plan)-1] != CTA {
			t.Errorf("Plan(%d) ends with %q, want %q", n, plan[len(plan)-1], CTA)
		}
	}
}

func TestParseAssetKey(t *testing.T) {
	cases := []struct {
		key   string
		scene string
		kind  AssetKind
		ok    bool
	}{
		{"Hook_image", "Hook", AssetImage, true},
		{"CTA_video", "CTA", AssetVideo, true},
		{"SocialProof_image", "SocialProof", AssetImage, true},
		{"final_video", "final", AssetVideo, true},
		{"Hook", "", "", false},
		{"Hook_audio", "", "", false},
		{"_image", "", "", false},
		{"Hook_", "", "", false},
	}
	for _, tc := range cases {
		scene, kind, ok := ParseAssetKey(tc.key)
		if scene != tc.scene || kind != tc.kind || ok != tc.ok {
			t.Errorf("ParseAssetKey(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.key, scene, kind, ok, tc.scene, tc.kind, tc.ok)
		}
	}
}

func TestAssetKeyRoundTrip(t *testing.T) {
	key := AssetKey(Benefit, AssetVideo)
	if key != "Benefit_video" {
		t.Fatalf("AssetKey = %q", key)
	}
	scene, kind, ok := ParseAssetKey(key)
	if !ok || scene != Benefit || kind != AssetVideo {
		t.Errorf("round trip gave (%q, %q, %v)", scene, kind, ok)
	}
}
