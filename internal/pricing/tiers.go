package pricing

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Tier is one purchasable credit pack. AmountMinor is in paise.
type Tier struct {
	ID          string
	Name        string
	AmountMinor int64
	Credits     int
}

// Tiers lists the purchasable packs in ascending price order.
func Tiers() []Tier {
	return []Tier{
		{ID: "starter", Name: "Starter", AmountMinor: 4900, Credits: 50},
		{ID: "growth", Name: "Growth", AmountMinor: 14900, Credits: 200},
		{ID: "agency", Name: "Agency", AmountMinor: 49700, Credits: 800},
	}
}

// TierByID looks up a tier by its identifier.
func TierByID(id string) (Tier, bool) {
	for _, tier := range Tiers() {
		if tier.ID == id {
			return tier, true
		}
	}
	return Tier{}, false
}

var inrPrinter = message.NewPrinter(language.English)

// FormatAmount renders a minor-unit amount as a display price, e.g. "₹49.00".
func FormatAmount(minor int64) string {
	unit := currency.INR.Amount(float64(minor) / 100)
	return inrPrinter.Sprintf("%v", currency.Symbol(unit))
}
