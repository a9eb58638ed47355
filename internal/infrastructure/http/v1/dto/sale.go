package dto

import (
	"time"

	"salesdesk/internal/core/id"
	"salesdesk/internal/core/types"
	"salesdesk/internal/domain/sale"
)

// --- Request DTOs ---

// CreateSaleRequest represents a request to create a sale.
type CreateSaleRequest struct {
	SaleNumber string            `json:"saleNumber,omitempty"`
	SaleDate   time.Time         `json:"saleDate" binding:"required"`
	Customer   string            `json:"customer" binding:"required"`
	Branch     string            `json:"branch" binding:"required"`
	Items      []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SaleItemRequest represents a line item in create/update requests.
// Discount and line total are never accepted from callers.
type SaleItemRequest struct {
	ID        string      `json:"id,omitempty"`
	Product   string      `json:"product" binding:"required"`
	Quantity  int         `json:"quantity" binding:"required,gt=0"`
	UnitPrice types.Money `json:"unitPrice" binding:"required"`
}

// ToEntity converts request to domain entity.
func (r *CreateSaleRequest) ToEntity() *sale.Sale {
	s := sale.NewSale(r.Customer, r.Branch, r.SaleDate)
	s.SaleNumber = r.SaleNumber

	for _, item := range r.Items {
		s.AddItem(item.Product, item.Quantity, item.UnitPrice)
	}

	return s
}

// UpdateSaleRequest represents a request to update a sale. SaleNumber and
// Customer must match the stored values; changes to either are rejected.
type UpdateSaleRequest struct {
	SaleNumber string            `json:"saleNumber" binding:"required"`
	SaleDate   time.Time         `json:"saleDate" binding:"required"`
	Customer   string            `json:"customer" binding:"required"`
	Branch     string            `json:"branch" binding:"required"`
	Items      []SaleItemRequest `json:"items" binding:"dive"`
}

// ToEntity converts the update request into a proposed sale state. Item IDs
// are carried over when present so existing lines can be matched.
func (r *UpdateSaleRequest) ToEntity() *sale.Sale {
	s := sale.NewSale(r.Customer, r.Branch, r.SaleDate)
	s.SaleNumber = r.SaleNumber

	for _, item := range r.Items {
		s.AddItem(item.Product, item.Quantity, item.UnitPrice)
		if item.ID != "" {
			if itemID, err := id.Parse(item.ID); err == nil {
				s.Items[len(s.Items)-1].ID = itemID
			}
		}
	}

	return s
}

// SetCancelledRequest toggles the cancellation flag of a sale.
type SetCancelledRequest struct {
	Cancelled bool `json:"cancelled"`
}

// --- Response DTOs ---

// SaleResponse represents a sale in API responses.
type SaleResponse struct {
	ID           string             `json:"id"`
	SaleNumber   string             `json:"saleNumber"`
	SaleDate     time.Time          `json:"saleDate"`
	Customer     string             `json:"customer"`
	Branch       string             `json:"branch"`
	TotalAmount  types.Money        `json:"totalAmount"`
	IsCancelled  bool               `json:"isCancelled"`
	Items        []SaleItemResponse `json:"items"`
	DeletionMark bool               `json:"deletionMark,omitempty"`
	Version      int                `json:"version"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// SaleItemResponse represents a line item in API responses.
type SaleItemResponse struct {
	ID          string      `json:"id"`
	Product     string      `json:"product"`
	Quantity    int         `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
	Discount    types.Money `json:"discount"`
	TotalAmount types.Money `json:"totalAmount"`
}

// FromSale converts domain entity to response DTO.
func FromSale(s *sale.Sale) *SaleResponse {
	resp := &SaleResponse{
		ID:           s.ID.String(),
		SaleNumber:   s.SaleNumber,
		SaleDate:     s.SaleDate,
		Customer:     s.Customer,
		Branch:       s.Branch,
		TotalAmount:  s.TotalAmount,
		IsCancelled:  s.IsCancelled,
		DeletionMark: s.DeletionMark,
		Version:      s.Version,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}

	resp.Items = make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		resp.Items[i] = SaleItemResponse{
			ID:          item.ID.String(),
			Product:     item.Product,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			TotalAmount: item.TotalAmount,
		}
	}

	return resp
}

// SaleListResponse represents a paginated list of sales.
type SaleListResponse struct {
	Items      []*SaleResponse `json:"items"`
	TotalCount int64           `json:"totalCount"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}
