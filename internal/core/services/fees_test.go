package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
	"github.com/luma-events/ticketing-backend/internal/core/services"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineAmounts_TenPercentFee(t *testing.T) {
	calc := services.NewFeeCalculator(dec("10"))

	amounts, err := calc.LineAmounts(domain.CartItem{
		EventID:  "e1",
		Price:    dec("100.00"),
		Quantity: 2,
	})

	assert.NoError(t, err)
	assert.True(t, amounts.Subtotal.Equal(dec("200.00")), "subtotal: %s", amounts.Subtotal)
	assert.True(t, amounts.Fee.Equal(dec("20.00")), "fee: %s", amounts.Fee)
	assert.True(t, amounts.Total.Equal(dec("220.00")), "total: %s", amounts.Total)
}

func TestLineAmounts_RoundsToTwoPlaces(t *testing.T) {
	calc := services.NewFeeCalculator(dec("10"))

	// 33.33 * 3 = 99.99, fee 9.999 rounds to 10.00
	amounts, err := calc.LineAmounts(domain.CartItem{
		EventID:  "e1",
		Price:    dec("33.33"),
		Quantity: 3,
	})

	assert.NoError(t, err)
	assert.True(t, amounts.Subtotal.Equal(dec("99.99")))
	assert.True(t, amounts.Fee.Equal(dec("10.00")))
	assert.True(t, amounts.Total.Equal(dec("109.99")))
}

func TestLineAmounts_Invalid(t *testing.T) {
	calc := services.NewFeeCalculator(dec("10"))

	_, err := calc.LineAmounts(domain.CartItem{EventID: "e1", Price: dec("10.00"), Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidCart)

	_, err = calc.LineAmounts(domain.CartItem{EventID: "e1", Price: dec("-1.00"), Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidCart)

	// zero price is "missing" as far as the cart payload is concerned
	_, err = calc.LineAmounts(domain.CartItem{EventID: "e1", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidCart)
}

func TestCartCharge(t *testing.T) {
	calc := services.NewFeeCalculator(dec("10"))

	total, err := calc.CartCharge([]domain.CartItem{
		{EventID: "e1", Price: dec("100.00"), Quantity: 2},
		{EventID: "e2", Price: dec("50.00"), Quantity: 1},
	})

	assert.NoError(t, err)
	// 220.00 + 55.00
	assert.True(t, total.Equal(dec("275.00")), "total: %s", total)
}

func TestCartCharge_EmptyCart(t *testing.T) {
	calc := services.NewFeeCalculator(dec("10"))

	_, err := calc.CartCharge(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidCart)
}

func TestCartCharge_StableAcrossRuns(t *testing.T) {
	calc := services.NewFeeCalculator(dec("10"))
	items := []domain.CartItem{{EventID: "e1", Price: dec("19.99"), Quantity: 7}}

	first, err := calc.CartCharge(items)
	assert.NoError(t, err)

	for i := 0; i < 100; i++ {
		again, err := calc.CartCharge(items)
		assert.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(22000), services.MinorUnits(dec("220.00")))
	assert.Equal(t, int64(10999), services.MinorUnits(dec("109.99")))
}
