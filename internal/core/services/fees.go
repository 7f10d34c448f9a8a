package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
)

var oneHundred = decimal.NewFromInt(100)

// LineAmounts is the fee breakdown of one cart line. All amounts are rounded
// to 2 decimal places.
type LineAmounts struct {
	Subtotal decimal.Decimal
	Fee      decimal.Decimal
	Total    decimal.Decimal
}

// FeeCalculator computes the platform fee for cart line items. Pure decimal
// arithmetic; floats would drift on repeated runs.
type FeeCalculator struct {
	rate decimal.Decimal
}

// NewFeeCalculator takes the platform fee as a percentage, e.g. 10 for 10%.
func NewFeeCalculator(feePercent decimal.Decimal) *FeeCalculator {
	return &FeeCalculator{rate: feePercent.Div(oneHundred)}
}

func (c *FeeCalculator) FeePercent() decimal.Decimal {
	return c.rate.Mul(oneHundred)
}

func (c *FeeCalculator) LineAmounts(item domain.CartItem) (LineAmounts, error) {
	if item.Quantity <= 0 {
		return LineAmounts{}, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidCart)
	}

	if !item.Price.IsPositive() {
		return LineAmounts{}, fmt.Errorf("%w: price must be positive", domain.ErrInvalidCart)
	}

	subtotal := item.Price.Mul(decimal.NewFromInt(item.Quantity)).Round(2)
	fee := subtotal.Mul(c.rate).Round(2)

	return LineAmounts{
		Subtotal: subtotal,
		Fee:      fee,
		Total:    subtotal.Add(fee),
	}, nil
}

// CartCharge sums line totals across the cart into the amount charged on the
// single payment intent.
func (c *FeeCalculator) CartCharge(items []domain.CartItem) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no items provided", domain.ErrInvalidCart)
	}

	total := decimal.Zero
	for _, item := range items {
		amounts, err := c.LineAmounts(item)
		if err != nil {
			return decimal.Zero, err
		}

		total = total.Add(amounts.Total)
	}

	return total, nil
}

// MinorUnits converts a charge amount to the gateway's integer currency
// representation (cents/centavos).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(oneHundred).IntPart()
}
