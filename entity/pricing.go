package entity

// PriceItem is a single line item in a price quote
type PriceItem struct {
	Cost        float64 `json:"cost" validate:"gte=0"`
	MarketPrice float64 `json:"market_price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=1"`
}

// PriceQuoteRequest represents a pricing calculation request
type PriceQuoteRequest struct {
	Items    []PriceItem `json:"items" validate:"required,min=1,dive"`
	Discount float64     `json:"discount" validate:"gte=0"`
}

// PriceBreakdown is the computed price breakdown.
// All monetary values are truncated (floored) to 2 decimal places.
type PriceBreakdown struct {
	Subtotal   float64 `json:"subtotal"`
	Savings    float64 `json:"savings"`
	Discount   float64 `json:"discount"`
	FinalPrice float64 `json:"final_price"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grand_total"`
}
