package sale

import (
	"context"
	"fmt"
	"time"

	"salesdesk/internal/core/apperror"
	"salesdesk/internal/core/id"
	"salesdesk/internal/core/types"
	"salesdesk/internal/core/validation"
	"salesdesk/pkg/logger"
)

// Date window for SaleDate relative to "now": no more than 30 days in the
// past and no more than 7 days in the future, inclusive, date-only, UTC.
const (
	saleDatePastLimitDays   = 30
	saleDateFutureLimitDays = 7
)

const (
	maxSaleNumberLength = 50
	maxCustomerLength   = 100
	maxBranchLength     = 50
	maxProductLength    = 100
	moneyScale          = 2
)

// Validator is the stateless validation and pricing engine for Sales.
//
// It runs field-level and cross-field rules against a candidate Sale
// (create path) or an existing/proposed pair (update path) and, only when
// the rules pass, applies the discount schedule and recalculates totals.
// All rule failures are accumulated, never thrown.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a Validator using the system clock.
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorWithClock creates a Validator with a pinned clock, for tests
// and for deterministic replay of the date-window rule.
func NewValidatorWithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// withinDateRange checks the sale date window with date-only comparison.
func (v *Validator) withinDateRange(saleDate time.Time) bool {
	today := v.now().UTC().Truncate(24 * time.Hour)
	pastLimit := today.AddDate(0, 0, -saleDatePastLimitDays)
	futureLimit := today.AddDate(0, 0, saleDateFutureLimitDays)

	d := saleDate.UTC().Truncate(24 * time.Hour)
	return !d.Before(pastLimit) && !d.After(futureLimit)
}

// saleRules is the full Sale-level rule set for the create path (and the
// final gate of the update path). Rules are evaluated eagerly and all
// failures accumulate.
func (v *Validator) saleRules(s *Sale) []validation.Rule {
	rules := []validation.Rule{
		{Field: "Id", Message: "Sale ID is required.",
			Valid: func() bool { return !id.IsNil(s.ID) }},
		{Field: "SaleNumber", Message: "Sale number is required.",
			Valid: func() bool { return s.SaleNumber != "" }},
		{Field: "SaleNumber", Message: "Sale number cannot exceed 50 characters.",
			Valid: func() bool { return len(s.SaleNumber) <= maxSaleNumberLength }},
		{Field: "SaleDate", Message: "Sale date is required.",
			Valid: func() bool { return !s.SaleDate.IsZero() }},
		{Field: "SaleDate", Message: "Sale date must be within the last 30 days and no more than 7 days in the future.",
			Valid: func() bool { return s.SaleDate.IsZero() || v.withinDateRange(s.SaleDate) }},
		{Field: "Customer", Message: "Customer name is required.",
			Valid: func() bool { return s.Customer != "" }},
		{Field: "Customer", Message: "Customer name cannot exceed 100 characters.",
			Valid: func() bool { return len(s.Customer) <= maxCustomerLength }},
		{Field: "Branch", Message: "Branch cannot exceed 50 characters.",
			Valid: func() bool { return len(s.Branch) <= maxBranchLength }},
		{Field: "Items", Message: "A sale must have at least one item.",
			Valid: func() bool { return len(s.Items) > 0 }},
		{Field: "Items", Message: "A sale must have at least one item in total quantity.",
			Valid: func() bool { return s.TotalQuantity() >= 1 }},
		// TotalAmount is checked as supplied, before recomputation; the
		// engine ignores the caller-supplied figure afterwards.
		{Field: "TotalAmount", Message: "Total amount must be greater than or equal to 0.",
			Valid: func() bool { return !s.TotalAmount.IsNegative() }},
		{Field: "TotalAmount", Message: "Total amount must have up to 2 decimal places.",
			Valid: func() bool { return types.HasScaleAtMost(s.TotalAmount, moneyScale) }},
	}

	for idx := range s.Items {
		item := &s.Items[idx]
		rules = append(rules,
			validation.Rule{Field: itemField(idx, "Product"), Message: "Product name is required.",
				Valid: func() bool { return item.Product != "" }},
			validation.Rule{Field: itemField(idx, "UnitPrice"), Message: "Unit price must be greater than 0.",
				Valid: func() bool { return item.UnitPrice.IsPositive() }},
			validation.Rule{Field: itemField(idx, "Quantity"), Message: "Cannot sell more than 20 items of the same product.",
				Valid: func() bool { return item.Quantity <= MaxQuantityPerProduct }},
			validation.Rule{Field: itemField(idx, "Quantity"), Message: "Quantity must be greater than or equal to 0.",
				Valid: func() bool { return item.Quantity >= 0 }},
		)
		rules = append(rules, itemRules(idx, item)...)
	}

	return rules
}

// itemRules is the per-item rule set, shared by the create path and the
// update path's item validation.
func itemRules(idx int, item *SaleItem) []validation.Rule {
	return []validation.Rule{
		{Field: itemField(idx, "Id"), Message: "SaleItem ID is required.",
			Valid: func() bool { return !id.IsNil(item.ID) }},
		{Field: itemField(idx, "Product"), Message: "Product name cannot exceed 100 characters.",
			Valid: func() bool { return len(item.Product) <= maxProductLength }},
		{Field: itemField(idx, "Quantity"), Message: "Quantity must be greater than 0.",
			Valid: func() bool { return item.Quantity > 0 }},
		{Field: itemField(idx, "UnitPrice"), Message: "Unit price must be greater than or equal to 0.",
			Valid: func() bool { return !item.UnitPrice.IsNegative() }},
		{Field: itemField(idx, "UnitPrice"), Message: "Unit price must have up to 2 decimal places.",
			Valid: func() bool { return types.HasScaleAtMost(item.UnitPrice, moneyScale) }},
		{Field: itemField(idx, "Discount"), Message: "Discount must be greater than or equal to 0.",
			Valid: func() bool { return !item.Discount.IsNegative() }},
		{Field: itemField(idx, "Discount"), Message: "Discount must have up to 2 decimal places.",
			Valid: func() bool { return types.HasScaleAtMost(item.Discount, moneyScale) }},
		{Field: itemField(idx, "TotalAmount"), Message: "Total amount must be greater than or equal to 0.",
			Valid: func() bool { return !item.TotalAmount.IsNegative() }},
		{Field: itemField(idx, "TotalAmount"), Message: "Total amount must have up to 2 decimal places.",
			Valid: func() bool { return types.HasScaleAtMost(item.TotalAmount, moneyScale) }},
	}
}

func itemField(idx int, name string) string {
	return fmt.Sprintf("Items[%d].%s", idx, name)
}

// pricingMessage converts a pricing error into the rule message it stands
// for, without the AppError code prefix Error() would add.
func pricingMessage(err error) string {
	if appErr, ok := apperror.AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}

// ValidateSale runs the create-path rules against s. When every rule holds
// it returns a priced copy (discounts applied, totals recalculated) and a
// valid result; otherwise it returns s unchanged and the accumulated
// failures. No I/O is performed and s itself is never mutated.
func (v *Validator) ValidateSale(ctx context.Context, s *Sale) (Sale, validation.Result, error) {
	if s == nil {
		return Sale{}, validation.Result{}, apperror.NewArgument("sale")
	}

	logger.Info(ctx, "starting validation for sale", "sale_id", s.ID)

	res := validation.Evaluate(v.saleRules(s))
	if !res.IsValid() {
		logger.Warn(ctx, "validation failed for sale",
			"sale_id", s.ID,
			"errors", len(res.Errors))
		return *s, res, nil
	}

	priced, err := s.Priced()
	if err != nil {
		// Unreachable after the quantity rules above; kept as a guard for
		// callers invoking pricing outside the validated path.
		res.Add("Items", pricingMessage(err))
		return *s, res, nil
	}

	logger.Info(ctx, "validation succeeded for sale", "sale_id", s.ID)
	return priced, res, nil
}

// ValidateUpdate validates proposed against existing: immutable fields must
// not change, proposed items are reconciled against the existing lines, and
// on success the priced proposal is re-validated with the full Sale rules
// as a final gate.
//
// A nil argument is a caller programming error and is returned as error,
// distinct from validation failures.
func (v *Validator) ValidateUpdate(ctx context.Context, existing, proposed *Sale) (Sale, validation.Result, error) {
	if existing == nil {
		return Sale{}, validation.Result{}, apperror.NewArgument("existingSale")
	}
	if proposed == nil {
		return Sale{}, validation.Result{}, apperror.NewArgument("proposedSale")
	}

	logger.Info(ctx, "starting update validation for sale", "sale_id", existing.ID)

	// Stage 1: immutable fields.
	res := validation.Evaluate([]validation.Rule{
		{Field: "SaleNumber", Message: "SaleNumber cannot be updated.",
			Valid: func() bool { return proposed.SaleNumber == existing.SaleNumber }},
		{Field: "Customer", Message: "Customer cannot be updated.",
			Valid: func() bool { return proposed.Customer == existing.Customer }},
	})
	if !res.IsValid() {
		logger.Warn(ctx, "update validation failed for sale",
			"sale_id", existing.ID,
			"errors", len(res.Errors))
		return *proposed, res, nil
	}

	// Stage 2: reconcile and validate items.
	work := *proposed
	work.Items = reconcileItems(existing, proposed.Items)

	if len(work.Items) == 0 {
		// An empty proposed item list is only warned about at this stage;
		// the final gate below still applies the Sale-level item rules.
		logger.Warn(ctx, "update proposes a sale with no items", "sale_id", existing.ID)
	}

	var itemRes validation.Result
	for idx := range work.Items {
		item := &work.Items[idx]
		rules := append(itemRules(idx, item),
			validation.Rule{Field: itemField(idx, "Quantity"), Message: "Cannot sell more than 20 items of the same product.",
				Valid: func() bool { return item.Quantity <= MaxQuantityPerProduct }})
		itemRes.Merge(validation.Evaluate(rules))
	}
	if !itemRes.IsValid() {
		logger.Warn(ctx, "update item validation failed for sale",
			"sale_id", existing.ID,
			"errors", len(itemRes.Errors))
		return work, itemRes, nil
	}

	// Stage 3: pricing.
	priced, err := work.Priced()
	if err != nil {
		var pricingRes validation.Result
		pricingRes.Add("Items", pricingMessage(err))
		return work, pricingRes, nil
	}

	// Stage 4: full Sale-level validation of the priced data as a final gate.
	finalRes := validation.Evaluate(v.saleRules(&priced))
	if !finalRes.IsValid() {
		logger.Warn(ctx, "final update validation failed for sale",
			"sale_id", existing.ID,
			"errors", len(finalRes.Errors))
		return priced, finalRes, nil
	}

	logger.Info(ctx, "update validation succeeded for sale", "sale_id", existing.ID)
	return priced, finalRes, nil
}

// reconcileItems maps proposed items onto the existing lines. Items whose
// id matches an existing line are kept (Matched); items with no matching id
// are treated as newly appended lines (New) and receive a fresh id. Every
// reconciled item is stamped with the owning sale's id, since the proposal
// may carry a throwaway one from the transport layer.
func reconcileItems(existing *Sale, proposed []SaleItem) []SaleItem {
	existingIDs := make(map[id.ID]struct{}, len(existing.Items))
	for _, item := range existing.Items {
		existingIDs[item.ID] = struct{}{}
	}

	out := make([]SaleItem, len(proposed))
	for idx, item := range proposed {
		if _, matched := existingIDs[item.ID]; !matched {
			item.ID = id.New()
		}
		item.SaleID = existing.ID
		out[idx] = item
	}
	return out
}
