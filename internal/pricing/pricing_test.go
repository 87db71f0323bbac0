package pricing

import (
	"strings"
	"testing"

	"ignite/internal/api"
)

func TestCostBase(t *testing.T) {
	cases := []struct {
		scenes int
		want   int
	}{
		{0, 0},
		{-1, 0},
		{1, 2},
		{3, 6},
		{6, 12},
	}
	for _, tc := range cases {
		if got := Cost(tc.scenes, api.Features{}, ""); got != tc.want {
			t.Errorf("Cost(%d, none) = %d, want %d", tc.scenes, got, tc.want)
		}
	}
}

func TestCostFeatureIncrements(t *testing.T) {
	base := Cost(3, api.Features{}, "")
	cases := []struct {
		name     string
		features api.Features
		model    string
		extra    int
	}{
		{"generative background", api.Features{GenerativeBackground: true}, "", 2},
		{"premium tts", api.Features{PremiumTTS: true}, "", 1},
		{"4k", api.Features{HighResolution: true}, "", 1},
		{"premium image model", api.Features{}, PremiumImageModel, 1},
		{"standard image model", api.Features{}, "gemini-2.5-flash-image", 0},
		{
			"everything",
			api.Features{GenerativeBackground: true, PremiumTTS: true, HighResolution: true},
			PremiumImageModel,
			5,
		},
	}
	for _, tc := range cases {
		if got := Cost(3, tc.features, tc.model); got != base+tc.extra {
			t.Errorf("%s: Cost = %d, want %d", tc.name, got, base+tc.extra)
		}
	}
}

func TestTierByID(t *testing.T) {
	tier, ok := TierByID("growth")
	if !ok {
		t.Fatal("growth tier missing")
	}
	if tier.AmountMinor != 14900 || tier.Credits != 200 {
		t.Errorf("growth tier = %+v", tier)
	}
	if _, ok := TierByID("enterprise"); ok {
		t.Error("unexpected tier matched")
	}
}

func TestTiersAscendingPrice(t *testing.T) {
	tiers := Tiers()
	for i := 1; i < len(tiers); i++ {
		if tiers[i].AmountMinor <= tiers[i-1].AmountMinor {
			t.Errorf("tiers out of order at %d: %+v", i, tiers)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	got := FormatAmount(4900)
	if !strings.Contains(got, "49") {
		t.Errorf("FormatAmount(4900) = %q, want the major amount rendered", got)
	}
}
