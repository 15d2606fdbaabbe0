package services

import (
	"math"
	"strings"
)

// Delivery pricing: orders above the threshold ship free, everything else
// pays a flat fee.
const (
	FreeDeliveryThreshold = 500.0
	FlatDeliveryFee       = 40.0
)

// promo is either a percentage off the subtotal or a fixed amount, never
// both.
type promo struct {
	rate   float64
	amount float64
}

// promoCodes is the fixed promo table. Lookup is case-insensitive.
var promoCodes = map[string]promo{
	"FARMACY10": {rate: 0.10},
	"SAVE50":    {amount: 50},
	"FIRST100":  {amount: 100},
}

// QuoteLine is one priced cart line.
type QuoteLine struct {
	UnitPrice float64
	Quantity  int
}

// Quote is the derived price breakdown for a cart. PromoApplied
// distinguishes a recognized code from an unknown one, independent of the
// discount value.
type Quote struct {
	Subtotal     float64 `json:"subtotal"`
	DeliveryFee  float64 `json:"delivery_fee"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
	PromoApplied bool    `json:"promo_applied"`
}

// CalculateQuote derives subtotal, delivery fee, discount and total from the
// given lines and optional promo code. It is pure and performs no I/O; the
// order service re-runs it at placement time with catalog prices, so totals
// submitted by clients never reach the database.
func CalculateQuote(lines []QuoteLine, promoCode string) Quote {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}

	deliveryFee := FlatDeliveryFee
	if subtotal > FreeDeliveryThreshold {
		deliveryFee = 0
	}

	var discount float64
	var applied bool
	if promoCode != "" {
		if p, ok := promoCodes[strings.ToUpper(strings.TrimSpace(promoCode))]; ok {
			applied = true
			if p.rate > 0 {
				discount = subtotal * p.rate
			} else {
				// A fixed-amount code never exceeds the subtotal.
				discount = math.Min(p.amount, subtotal)
			}
		}
	}

	// Round the components first and derive the total from the rounded
	// values, so total = subtotal - discount + delivery_fee holds exactly on
	// what gets persisted.
	subtotal = round2(subtotal)
	discount = round2(discount)
	total := round2(subtotal - discount + deliveryFee)
	if total < 0 {
		total = 0
	}

	return Quote{
		Subtotal:     subtotal,
		DeliveryFee:  deliveryFee,
		Discount:     discount,
		Total:        total,
		PromoApplied: applied,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
