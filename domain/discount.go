package domain

import "encoding/json"

// DiscountSettings is the merchant's payment-method discount configuration.
// The zero value means discounts are off.
type DiscountSettings struct {
	Enabled         bool    `json:"enabled" bson:"enabled"`
	CashPercent     float64 `json:"cash_percent" bson:"cash_percent"`
	TransferPercent float64 `json:"transfer_percent" bson:"transfer_percent"`
}

// ParseDiscountSettings decodes the merchant discount configuration. Absent,
// malformed or out-of-range input degrades to disabled settings; bad
// configuration must never break checkout.
func ParseDiscountSettings(raw []byte) DiscountSettings {
	if len(raw) == 0 {
		return DiscountSettings{}
	}
	var s DiscountSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return DiscountSettings{}
	}
	if s.CashPercent < 0 || s.CashPercent > 100 ||
		s.TransferPercent < 0 || s.TransferPercent > 100 {
		return DiscountSettings{}
	}
	return s
}

// DiscountPercent returns the effective percentage for a payment method.
func DiscountPercent(method PaymentMethod, settings DiscountSettings) float64 {
	if !settings.Enabled {
		return 0
	}
	switch method {
	case PaymentCash:
		return settings.CashPercent
	case PaymentTransfer:
		return settings.TransferPercent
	default:
		return 0
	}
}

// ComputeDiscount returns the discount amount for a subtotal. Pure and
// deterministic; zero when discounts are disabled or the subtotal is not
// positive.
func ComputeDiscount(subtotal float64, method PaymentMethod, settings DiscountSettings) float64 {
	if subtotal <= 0 {
		return 0
	}
	return subtotal * DiscountPercent(method, settings) / 100
}
