// Package sale provides the Sale aggregate: a sale header with line items,
// quantity-tiered discounting and deterministic total calculation.
package sale

import (
	"time"

	"github.com/shopspring/decimal"

	"salesdesk/internal/core/apperror"
	"salesdesk/internal/core/entity"
	"salesdesk/internal/core/id"
	"salesdesk/internal/core/types"
	"salesdesk/pkg/salenumber"
)

// Discount tiers by item quantity. The discount is always derived from
// quantity and never accepted from callers.
const (
	discountTierLow  = 4  // below this: no discount
	discountTierHigh = 10 // from here to MaxQuantity: 20%

	// MaxQuantityPerProduct is the hard limit for a single product line.
	// Quantities above it are rejected, not capped.
	MaxQuantityPerProduct = 20
)

var (
	discountTen    = decimal.NewFromInt(10)
	discountTwenty = decimal.NewFromInt(20)
	oneHundred     = decimal.NewFromInt(100)
)

// Sale represents one commercial transaction.
type Sale struct {
	entity.BaseDocument

	// SaleNumber is a short human-readable code, generated at creation
	// if absent and immutable afterwards.
	SaleNumber string `db:"sale_number" json:"saleNumber"`

	// SaleDate is the business date of the sale
	SaleDate time.Time `db:"sale_date" json:"saleDate"`

	// Customer is immutable after creation
	Customer string `db:"customer" json:"customer"`

	Branch string `db:"branch" json:"branch"`

	// TotalAmount is derived from items; never trusted from input
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	IsCancelled bool `db:"is_cancelled" json:"isCancelled"`

	// Table part: line items, exclusively owned by this Sale
	Items []SaleItem `db:"-" json:"items"`
}

// SaleItem represents one product line within a Sale.
type SaleItem struct {
	ID     id.ID `db:"id" json:"id"`
	SaleID id.ID `db:"sale_id" json:"saleId"`

	Product  string `db:"product" json:"product"`
	Quantity int    `db:"quantity" json:"quantity"`

	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// Discount is a percentage (0, 10 or 20), derived from Quantity
	Discount types.Money `db:"discount" json:"discount"`

	// TotalAmount is the per-line net price after discount
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
}

// NewSale creates a new Sale with generated ID and timestamps.
func NewSale(customer, branch string, saleDate time.Time) *Sale {
	return &Sale{
		BaseDocument: entity.NewBaseDocument(),
		SaleDate:     saleDate,
		Customer:     customer,
		Branch:       branch,
		Items:        make([]SaleItem, 0),
	}
}

// AddItem appends a line item with a generated ID. Discount and totals are
// not computed here; pricing runs as part of validation.
func (s *Sale) AddItem(product string, quantity int, unitPrice types.Money) {
	s.Items = append(s.Items, SaleItem{
		ID:        id.New(),
		SaleID:    s.ID,
		Product:   product,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
}

// GenerateSaleNumber assigns a sale number if one is not set yet.
// A caller-supplied number is never overwritten.
func (s *Sale) GenerateSaleNumber(gen salenumber.Generator) {
	if s.SaleNumber == "" {
		s.SaleNumber = gen.Next()
	}
}

// UpdateStatus sets the cancellation flag.
func (s *Sale) UpdateStatus(cancelled bool) {
	s.IsCancelled = cancelled
}

// TotalQuantity returns the sum of quantities across all items.
func (s *Sale) TotalQuantity() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// --- Pricing ---

// TotalPrice returns the net price for the line using its current discount:
// subtotal minus subtotal*discount/100, rounded to 2 decimal places.
// Pure function, no side effects.
func (i SaleItem) TotalPrice() types.Money {
	subtotal := i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	net := subtotal.Sub(subtotal.Mul(i.Discount).Div(oneHundred))
	return types.RoundMoney(net)
}

// DiscountForQuantity returns the tier discount percentage for a quantity.
// Quantities above MaxQuantityPerProduct are an invariant violation and
// yield an error; validation rejects them before pricing is reached.
func DiscountForQuantity(quantity int) (types.Money, error) {
	switch {
	case quantity > MaxQuantityPerProduct:
		return types.Zero(), apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Cannot sell more than 20 items of the same product.",
		).WithDetail("quantity", quantity)
	case quantity >= discountTierHigh:
		return discountTwenty, nil
	case quantity >= discountTierLow:
		return discountTen, nil
	default:
		return types.Zero(), nil
	}
}

// ApplyDiscounts returns a copy of the sale with every item's discount set
// from its quantity tier and the item total recomputed. Idempotent: running
// it twice yields the same values.
func (s Sale) ApplyDiscounts() (Sale, error) {
	out := s
	out.Items = make([]SaleItem, len(s.Items))
	for idx, item := range s.Items {
		discount, err := DiscountForQuantity(item.Quantity)
		if err != nil {
			return s, err
		}
		item.Discount = discount
		item.TotalAmount = item.TotalPrice()
		out.Items[idx] = item
	}
	return out, nil
}

// CalculateTotalAmount returns a copy of the sale with TotalAmount set to
// the sum of item totals using each item's current discount. It must run
// after ApplyDiscounts. Idempotent.
func (s Sale) CalculateTotalAmount() Sale {
	out := s
	out.Items = append([]SaleItem(nil), s.Items...)
	total := types.Zero()
	for _, item := range out.Items {
		total = total.Add(item.TotalPrice())
	}
	out.TotalAmount = types.RoundMoney(total)
	return out
}

// Priced applies discounts and recalculates the sale total, returning a
// fully priced copy. The receiver is never mutated.
func (s Sale) Priced() (Sale, error) {
	discounted, err := s.ApplyDiscounts()
	if err != nil {
		return s, err
	}
	return discounted.CalculateTotalAmount(), nil
}
