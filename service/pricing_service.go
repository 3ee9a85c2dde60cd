package service

import (
	"booknest-backend/entity"

	"github.com/shopspring/decimal"
)

// feeSlab maps an amount ceiling to a flat service fee. Slabs are ascending;
// the first slab whose ceiling covers the amount wins.
type feeSlab struct {
	ceiling decimal.Decimal
	fee     decimal.Decimal
}

var feeSlabs = []feeSlab{
	{ceiling: decimal.NewFromInt(0), fee: decimal.NewFromInt(0)},
	{ceiling: decimal.NewFromInt(2000), fee: decimal.NewFromInt(119)},
	{ceiling: decimal.NewFromInt(5000), fee: decimal.NewFromInt(179)},
	{ceiling: decimal.NewFromInt(10000), fee: decimal.NewFromInt(229)},
}

// feeAboveSlabs is the flat fee charged above the last slab ceiling
var feeAboveSlabs = decimal.NewFromInt(279)

// PricingService computes price breakdowns for a list of line items
type PricingService interface {
	Quote(req *entity.PriceQuoteRequest) *entity.PriceBreakdown
}

// pricingService implements PricingService interface
type pricingService struct{}

// NewPricingService creates a new pricing service instance
func NewPricingService() PricingService {
	return &pricingService{}
}

// Quote computes the full price breakdown. All monetary outputs are truncated
// to 2 decimal places via floor, not standard rounding; callers depend on
// that exact truncation.
func (s *pricingService) Quote(req *entity.PriceQuoteRequest) *entity.PriceBreakdown {
	subtotal := decimal.Zero
	savings := decimal.Zero

	for _, item := range req.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		cost := decimal.NewFromFloat(item.Cost)
		market := decimal.NewFromFloat(item.MarketPrice)

		subtotal = subtotal.Add(cost.Mul(qty))

		if saving := market.Sub(cost); saving.IsPositive() {
			savings = savings.Add(saving.Mul(qty))
		}
	}

	discount := decimal.NewFromFloat(req.Discount)

	finalPrice := subtotal.Sub(discount)
	if finalPrice.IsNegative() {
		finalPrice = decimal.Zero
	}

	tax := lookupFee(finalPrice)
	grandTotal := finalPrice.Add(tax)

	return &entity.PriceBreakdown{
		Subtotal:   floor2(subtotal),
		Savings:    floor2(savings),
		Discount:   floor2(discount),
		FinalPrice: floor2(finalPrice),
		Tax:        floor2(tax),
		GrandTotal: floor2(grandTotal),
	}
}

// lookupFee resolves the service fee for an amount from the slab table
func lookupFee(amount decimal.Decimal) decimal.Decimal {
	for _, slab := range feeSlabs {
		if amount.LessThanOrEqual(slab.ceiling) {
			return slab.fee
		}
	}
	return feeAboveSlabs
}

// floor2 truncates to 2 decimal places
func floor2(d decimal.Decimal) float64 {
	return d.RoundFloor(2).InexactFloat64()
}
