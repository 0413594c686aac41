package models

import "github.com/shopspring/decimal"

func init() {
	// Prices go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Establishment{},
		&User{},
		&RefreshToken{},
		&DeliveryRange{},
		&PaymentMethod{},
		&ProductType{},
		&Product{},
		&ProductSize{},
		&Addon{},
		&Client{},
		&Order{},
		&OrderItem{},
		&Promotion{},
		&PromotionItem{},
		&PromotionGroup{},
	}
}
