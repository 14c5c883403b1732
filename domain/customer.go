package domain

import "strings"

// CustomerInfo holds the buyer-entered contact fields. Name and phone are
// required before a submission may proceed; address is optional.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// Complete reports whether the required contact fields are filled in.
func (c CustomerInfo) Complete() bool {
	return strings.TrimSpace(c.Name) != "" && strings.TrimSpace(c.Phone) != ""
}
