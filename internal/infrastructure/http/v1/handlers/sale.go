package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salesdesk/internal/core/apperror"
	"salesdesk/internal/core/id"
	"salesdesk/internal/domain"
	"salesdesk/internal/domain/sale"
	"salesdesk/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles HTTP requests for sales.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /sales.
func (h *SaleHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s := req.ToEntity()
	if err := h.service.Create(ctx, s); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromSale(s))
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	saleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	s, err := h.service.GetByID(ctx, saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(s))
}

// GetByNumber handles GET /sales/by-number/:number.
func (h *SaleHandler) GetByNumber(c *gin.Context) {
	ctx := c.Request.Context()

	number := c.Param("number")
	if number == "" {
		h.Error(c, apperror.NewValidation("sale number is required"))
		return
	}

	s, err := h.service.GetByNumber(ctx, number)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(s))
}

// Update handles PUT /sales/:id.
func (h *SaleHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	saleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.service.Update(ctx, saleID, req.ToEntity())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(updated))
}

// Cancel handles POST /sales/:id/cancel.
// An empty body cancels; {"cancelled": false} reinstates.
func (h *SaleHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	saleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	req := dto.SetCancelledRequest{Cancelled: true}
	if c.Request.ContentLength > 0 {
		if !h.BindJSON(c, &req) {
			return
		}
	}

	s, err := h.service.Cancel(ctx, saleID, req.Cancelled)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(s))
}

// Delete handles DELETE /sales/:id (soft delete).
func (h *SaleHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	saleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, saleID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /sales - list with filtering.
func (h *SaleHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := sale.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "created_at DESC")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"
	filter.Customer = c.Query("customer")
	filter.Branch = c.Query("branch")

	if cancelled := c.Query("cancelled"); cancelled != "" {
		val := cancelled == "true"
		filter.Cancelled = &val
	}

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}

	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.SaleResponse, len(result.Items))
	for i, s := range result.Items {
		items[i] = dto.FromSale(s)
	}

	h.OK(c, dto.SaleListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers sale routes.
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/by-number/:number", h.GetByNumber)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/cancel", h.Cancel)
	rg.DELETE("/:id", h.Delete)
}
