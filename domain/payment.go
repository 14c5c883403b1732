package domain

import "strings"

// PaymentMethod is the closed set of payment options offered at checkout.
// Discounts apply only to cash and transfer.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentOther    PaymentMethod = "OTHER"
)

// ParsePaymentMethod maps free-form input onto the closed enum. Anything
// unrecognized becomes PaymentOther, which never receives a discount.
func ParsePaymentMethod(s string) PaymentMethod {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CASH", "EFECTIVO":
		return PaymentCash
	case "TRANSFER", "TRANSFERENCIA":
		return PaymentTransfer
	default:
		return PaymentOther
	}
}

// Label returns the buyer-facing name used in the outbound message.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Efectivo"
	case PaymentTransfer:
		return "Transferencia"
	default:
		return "Otro"
	}
}

func (m PaymentMethod) String() string {
	return string(m)
}
