// Package handoff builds the deep link that navigates the buyer to the
// merchant's messaging channel with the order summary prefilled.
package handoff

import (
	"fmt"
	"net/url"
	"strings"
)

// WhatsApp produces wa.me deep links. The storefront performs a full-page
// navigation to the returned URL (not a new tab) so mobile OS channel apps
// intercept it.
type WhatsApp struct{}

func NewWhatsApp() WhatsApp {
	return WhatsApp{}
}

func (WhatsApp) Open(messageText, destination string) string {
	return DeepLink(destination, messageText)
}

// DeepLink builds the wa.me URL for a phone number and a prefilled message.
// The number is reduced to digits; wa.me rejects '+' and separators.
func DeepLink(phone, message string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	// QueryEscape uses '+' for spaces, which WhatsApp renders literally.
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits.String(), encoded)
}
