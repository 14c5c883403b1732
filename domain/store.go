package domain

// StoreProfile is the per-merchant configuration checkout needs, resolved
// before a submission begins and passed in as an already-settled value.
type StoreProfile struct {
	ID             string           `json:"store_id" bson:"store_id"`
	Name           string           `json:"name" bson:"name"`
	WhatsAppNumber string           `json:"whatsapp_number" bson:"whatsapp_number"`
	StockTracking  bool             `json:"stock_tracking" bson:"stock_tracking"`
	Discounts      DiscountSettings `json:"discounts" bson:"discounts"`
}
