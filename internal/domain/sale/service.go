package sale

import (
	"context"
	"fmt"

	"salesdesk/internal/core/apperror"
	"salesdesk/internal/core/id"
	"salesdesk/internal/core/tx"
	"salesdesk/internal/core/validation"
	"salesdesk/internal/domain"
	"salesdesk/pkg/logger"
	"salesdesk/pkg/salenumber"
)

// Service provides business operations for sales. It sequences
// "load existing -> validate -> persist" around the validation engine;
// the engine itself performs no I/O.
type Service struct {
	repo      Repository
	validator *Validator
	numbers   salenumber.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Sale]
}

// NewService creates a new sale service.
func NewService(repo Repository, validator *Validator, numbers salenumber.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		numbers:   numbers,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Sale](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Sale] {
	return s.hooks
}

// validationError wraps an invalid validation result into an AppError so
// the transport layer can report every field error in one response.
func validationError(res validation.Result) error {
	return apperror.NewValidation("Validation failed").
		WithDetail("errors", res.Errors)
}

// Create validates, prices and persists a new sale.
func (s *Service) Create(ctx context.Context, sl *Sale) error {
	if sl == nil {
		return apperror.NewArgument("sale")
	}

	if err := s.hooks.RunBeforeCreate(ctx, sl); err != nil {
		return err
	}

	// Assign a number only when the caller did not supply one.
	sl.GenerateSaleNumber(s.numbers)

	priced, res, err := s.validator.ValidateSale(ctx, sl)
	if err != nil {
		return err
	}
	if !res.IsValid() {
		return validationError(res)
	}
	*sl = priced

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, sl); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		if err := s.repo.SaveItems(ctx, sl.ID, sl.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, sl); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "sale created",
		"id", sl.ID,
		"sale_number", sl.SaleNumber,
		"total_amount", sl.TotalAmount)

	return nil
}

// GetByID retrieves a sale with its items.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	sl, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	sl.Items = items

	return sl, nil
}

// GetByNumber retrieves a sale by its sale number, with items.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Sale, error) {
	sl, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, sl.ID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	sl.Items = items

	return sl, nil
}

// Update validates the proposed sale data against the stored sale and
// persists the priced proposal when validation passes. Immutable fields
// (sale number, customer) must not change.
func (s *Service) Update(ctx context.Context, saleID id.ID, proposed *Sale) (*Sale, error) {
	if proposed == nil {
		return nil, apperror.NewArgument("proposedSale")
	}

	existing, err := s.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := s.hooks.RunBeforeUpdate(ctx, existing); err != nil {
		return nil, err
	}

	// The proposal addresses the stored aggregate; identity and audit
	// fields carry over from the existing record.
	proposed.ID = existing.ID
	proposed.Version = existing.Version
	proposed.CreatedAt = existing.CreatedAt

	priced, res, err := s.validator.ValidateUpdate(ctx, existing, proposed)
	if err != nil {
		return nil, err
	}
	if !res.IsValid() {
		return nil, validationError(res)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, &priced); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		if err := s.repo.SaveItems(ctx, priced.ID, priced.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.hooks.RunAfterUpdate(ctx, &priced); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}

	logger.Info(ctx, "sale updated",
		"id", priced.ID,
		"sale_number", priced.SaleNumber,
		"total_amount", priced.TotalAmount)

	return &priced, nil
}

// Cancel flips the cancellation flag on a sale.
func (s *Service) Cancel(ctx context.Context, saleID id.ID, cancelled bool) (*Sale, error) {
	sl, err := s.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	sl.UpdateStatus(cancelled)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, sl)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale status updated", "id", sl.ID, "cancelled", cancelled)
	return sl, nil
}

// Delete soft-deletes a sale.
func (s *Service) Delete(ctx context.Context, saleID id.ID) error {
	sl, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return err
	}

	if err := s.hooks.RunBeforeDelete(ctx, sl); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, saleID)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterDelete(ctx, sl); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "error", err)
	}

	logger.Info(ctx, "sale deleted", "id", saleID)
	return nil
}

// List retrieves sales with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}
