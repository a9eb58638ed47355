package sale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/internal/core/apperror"
	"salesdesk/internal/core/types"
)

func TestDiscountForQuantity_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     string
		wantErr  bool
	}{
		{name: "single item no discount", quantity: 1, want: "0"},
		{name: "below low tier", quantity: 3, want: "0"},
		{name: "low tier start", quantity: 4, want: "10"},
		{name: "low tier end", quantity: 9, want: "10"},
		{name: "high tier start", quantity: 10, want: "20"},
		{name: "high tier end", quantity: 20, want: "20"},
		{name: "above limit rejected", quantity: 21, wantErr: true},
		{name: "far above limit rejected", quantity: 100, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discount, err := DiscountForQuantity(tt.quantity)
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, "Cannot sell more than 20 items of the same product.", appErr.Message)
				return
			}
			require.NoError(t, err)
			assert.True(t, discount.Equal(types.MustMoney(tt.want)),
				"quantity %d: want %s, got %s", tt.quantity, tt.want, discount)
		})
	}
}

func TestSaleItem_TotalPrice(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		unitPrice string
		discount  string
		want      string
	}{
		{name: "no discount", quantity: 2, unitPrice: "20.00", discount: "0", want: "40.00"},
		{name: "ten percent", quantity: 5, unitPrice: "10.50", discount: "10", want: "47.25"},
		{name: "twenty percent", quantity: 10, unitPrice: "3.00", discount: "20", want: "24.00"},
		{name: "rounding", quantity: 3, unitPrice: "0.10", discount: "10", want: "0.27"},
		{name: "zero quantity", quantity: 0, unitPrice: "99.99", discount: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := SaleItem{
				Quantity:  tt.quantity,
				UnitPrice: types.MustMoney(tt.unitPrice),
				Discount:  types.MustMoney(tt.discount),
			}
			got := item.TotalPrice()
			assert.True(t, got.Equal(types.MustMoney(tt.want)),
				"want %s, got %s", tt.want, got)
		})
	}
}

func TestSale_Priced(t *testing.T) {
	s := NewSale("ACME Corp", "Main Branch", time.Now().UTC())
	s.AddItem("Widget", 5, types.MustMoney("10.50"))  // 10% -> 47.25
	s.AddItem("Gadget", 2, types.MustMoney("20.00")) // no discount -> 40.00

	priced, err := s.Priced()
	require.NoError(t, err)

	assert.True(t, priced.Items[0].Discount.Equal(types.MustMoney("10")))
	assert.True(t, priced.Items[0].TotalAmount.Equal(types.MustMoney("47.25")))
	assert.True(t, priced.Items[1].Discount.Equal(types.MustMoney("0")))
	assert.True(t, priced.Items[1].TotalAmount.Equal(types.MustMoney("40.00")))
	assert.True(t, priced.TotalAmount.Equal(types.MustMoney("87.25")),
		"want 87.25, got %s", priced.TotalAmount)

	// Receiver stays unpriced
	assert.True(t, s.TotalAmount.IsZero())
	assert.True(t, s.Items[0].Discount.IsZero())
}

func TestSale_Priced_Idempotent(t *testing.T) {
	s := NewSale("ACME Corp", "Main Branch", time.Now().UTC())
	s.AddItem("Widget", 12, types.MustMoney("7.77"))

	once, err := s.Priced()
	require.NoError(t, err)
	twice, err := once.Priced()
	require.NoError(t, err)

	assert.True(t, once.TotalAmount.Equal(twice.TotalAmount))
	assert.True(t, once.Items[0].Discount.Equal(twice.Items[0].Discount))
	assert.True(t, once.Items[0].TotalAmount.Equal(twice.Items[0].TotalAmount))
}

func TestSale_Priced_QuantityOverLimit(t *testing.T) {
	s := NewSale("ACME Corp", "Main Branch", time.Now().UTC())
	s.AddItem("Widget", 21, types.MustMoney("1.00"))

	_, err := s.Priced()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Cannot sell more than 20 items of the same product.", appErr.Message)
}

type fixedGenerator struct{ number string }

func (g fixedGenerator) Next() string { return g.number }

func TestSale_GenerateSaleNumber(t *testing.T) {
	s := NewSale("ACME Corp", "Main Branch", time.Now().UTC())
	s.GenerateSaleNumber(fixedGenerator{number: "SAL1234567"})
	assert.Equal(t, "SAL1234567", s.SaleNumber)

	// Never overwrites a set number
	s.GenerateSaleNumber(fixedGenerator{number: "OTHER00001"})
	assert.Equal(t, "SAL1234567", s.SaleNumber)
}

func TestSale_TotalQuantity(t *testing.T) {
	s := NewSale("ACME Corp", "Main Branch", time.Now().UTC())
	assert.Equal(t, 0, s.TotalQuantity())

	s.AddItem("Widget", 3, types.MustMoney("1.00"))
	s.AddItem("Gadget", 7, types.MustMoney("1.00"))
	assert.Equal(t, 10, s.TotalQuantity())
}

func TestSale_AddItem(t *testing.T) {
	s := NewSale("ACME Corp", "Main Branch", time.Now().UTC())
	s.AddItem("Widget", 2, types.MustMoney("5.00"))

	require.Len(t, s.Items, 1)
	item := s.Items[0]
	assert.False(t, item.ID.String() == "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, s.ID, item.SaleID)
	assert.Equal(t, "Widget", item.Product)
	assert.True(t, item.Discount.IsZero())
	assert.True(t, item.TotalAmount.IsZero())
}
