package sale

import (
	"context"
	"time"

	"salesdesk/internal/core/id"
	"salesdesk/internal/domain"
)

// Repository defines persistence operations for sales.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)
	GetByNumber(ctx context.Context, number string) (*Sale, error)
	Update(ctx context.Context, s *Sale) error
	Delete(ctx context.Context, saleID id.ID) error

	// Item operations
	GetItems(ctx context.Context, saleID id.ID) ([]SaleItem, error)
	SaveItems(ctx context.Context, saleID id.ID, items []SaleItem) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error)
}

// ListFilter for filtering sales.
type ListFilter struct {
	domain.ListFilter

	// Sale-specific filters
	Customer  string
	Branch    string
	Cancelled *bool
	DateFrom  *time.Time
	DateTo    *time.Time
}
