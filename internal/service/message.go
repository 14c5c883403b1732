package service

import (
	"fmt"
	"strconv"
	"strings"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"
)

// BuildOrderMessage renders the buyer-facing order summary sent through the
// messaging hand-off. Identical inputs always yield byte-identical text.
func BuildOrderMessage(store d.StoreProfile, cart d.CartSnapshot, customer d.CustomerInfo, method d.PaymentMethod) string {
	var b strings.Builder

	fmt.Fprintf(&b, "¡Hola %s! Quiero hacer un pedido:\n\n", store.Name)

	fmt.Fprintf(&b, "*Cliente:* %s\n", customer.Name)
	fmt.Fprintf(&b, "*Teléfono:* %s\n", customer.Phone)
	if strings.TrimSpace(customer.Address) != "" {
		fmt.Fprintf(&b, "*Dirección:* %s\n", customer.Address)
	}
	fmt.Fprintf(&b, "*Pago:* %s\n\n", method.Label())

	for _, line := range cart.Lines {
		lineTotal := money(line.UnitPrice * float64(line.Quantity))
		if line.Reference != "" {
			fmt.Fprintf(&b, "%dx %s (%s) - %s\n", line.Quantity, line.Name, line.Reference, lineTotal)
		} else {
			fmt.Fprintf(&b, "%dx %s - %s\n", line.Quantity, line.Name, lineTotal)
		}
	}

	subtotal := cart.Subtotal()
	discount := d.ComputeDiscount(subtotal, method, store.Discounts)

	fmt.Fprintf(&b, "\nSubtotal: %s\n", money(subtotal))
	if discount > 0 {
		percent := d.DiscountPercent(method, store.Discounts)
		fmt.Fprintf(&b, "Descuento (%s%%): -%s\n", trimPercent(percent), money(discount))
	}
	fmt.Fprintf(&b, "Total a Pagar: %s", money(subtotal-discount))

	return b.String()
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// trimPercent renders 10 as "10" and 12.5 as "12.5".
func trimPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
