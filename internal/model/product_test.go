package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEffectivePrice(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p := &Product{
		Price: dec("10.00"),
		BulkPrices: BulkPrices{
			{Quantity: 10, Price: dec("8.50")},
			{Quantity: 5, Price: dec("9.00")},
		},
	}

	tests := []struct {
		name      string
		qty       int
		promotion *Promotion
		want      string
	}{
		{"list price", 1, nil, "10"},
		{"first tier", 5, nil, "9"},
		{"highest reached tier wins", 12, nil, "8.5"},
		{"percentage promotion", 1, &Promotion{StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour), DiscountType: DiscountPercentage, DiscountValue: dec("10")}, "9"},
		{"fixed promotion on tier", 5, &Promotion{StartDate: now, EndDate: now, DiscountType: DiscountFixed, DiscountValue: dec("1.25")}, "7.75"},
		{"expired promotion", 1, &Promotion{StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-24 * time.Hour), DiscountType: DiscountFixed, DiscountValue: dec("5")}, "10"},
		{"discount floors at zero", 1, &Promotion{StartDate: now, EndDate: now, DiscountType: DiscountFixed, DiscountValue: dec("50")}, "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p.Promotion = tc.promotion
			got := p.EffectivePrice(tc.qty, now)
			assert.True(t, dec(tc.want).Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestBulkPricesScan(t *testing.T) {
	var b BulkPrices
	require.NoError(t, b.Scan(`[{"quantity":3,"price":"4.5"}]`))
	require.Len(t, b, 1)
	assert.Equal(t, 3, b[0].Quantity)
	assert.True(t, dec("4.5").Equal(b[0].Price))

	require.NoError(t, b.Scan([]byte("[]")))
	assert.Nil(t, b)

	require.NoError(t, b.Scan(nil))
	assert.Nil(t, b)

	assert.Error(t, b.Scan(42))
}

func TestEmptyBulkPricesValue(t *testing.T) {
	v, err := BulkPrices(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
