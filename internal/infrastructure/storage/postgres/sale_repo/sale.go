package sale_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"salesdesk/internal/core/id"
	"salesdesk/internal/domain"
	"salesdesk/internal/domain/sale"
	"salesdesk/internal/infrastructure/storage/postgres"
)

const (
	salesTable     = "sales"
	saleItemsTable = "sale_items"
)

// Compile-time check that SaleRepo implements sale.Repository.
var _ sale.Repository = (*SaleRepo)(nil)

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	*BaseDocumentRepo[*sale.Sale]
	itemCols []string
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			salesTable,
			postgres.ExtractDBColumns[sale.Sale](),
			func() *sale.Sale { return &sale.Sale{} },
		),
		itemCols: postgres.ExtractDBColumns[sale.SaleItem](),
	}
}

// GetByNumber retrieves a sale by its sale number.
func (r *SaleRepo) GetByNumber(ctx context.Context, number string) (*sale.Sale, error) {
	return r.BaseDocumentRepo.GetByNumber(ctx, "sale_number", number)
}

// GetItems loads the line items of a sale, in insertion order.
func (r *SaleRepo) GetItems(ctx context.Context, saleID id.ID) ([]sale.SaleItem, error) {
	q := r.Builder().
		Select(r.itemCols...).
		From(saleItemsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}

	items := make([]sale.SaleItem, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

// SaveItems replaces the line items of a sale. Items are the table part of
// the sale document, so a full replace keeps persistence in step with the
// aggregate without diffing.
func (r *SaleRepo) SaveItems(ctx context.Context, saleID id.ID, items []sale.SaleItem) error {
	delQ := r.Builder().
		Delete(saleItemsTable).
		Where(squirrel.Eq{"sale_id": saleID})

	sql, args, err := delQ.ToSql()
	if err != nil {
		return fmt.Errorf("build items delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	cols := append([]string{}, r.itemCols...)
	cols = append(cols, "line_no")

	insQ := r.Builder().
		Insert(saleItemsTable).
		Columns(cols...)

	for lineNo, item := range items {
		data := postgres.StructToMap(item)
		data["sale_id"] = saleID
		data["line_no"] = lineNo + 1

		values := make([]any, 0, len(cols))
		for _, col := range cols {
			values = append(values, data[col])
		}
		insQ = insQ.Values(values...)
	}

	sql, args, err = insQ.ToSql()
	if err != nil {
		return fmt.Errorf("build items insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	return nil
}

// List retrieves sales matching the filter, with a total count.
func (r *SaleRepo) List(ctx context.Context, filter sale.ListFilter) (domain.ListResult[*sale.Sale], error) {
	result := domain.ListResult[*sale.Sale]{
		Items:  make([]*sale.Sale, 0),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()
	q = r.applyFilter(q, filter)

	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(r.applyFilter(r.baseSelect(), filter), "filtered")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &result.TotalCount, countSQL, countArgs...); err != nil {
		return result, fmt.Errorf("count sales: %w", err)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build list query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list sales: %w", err)
	}

	return result, nil
}

func (r *SaleRepo) applyFilter(q squirrel.SelectBuilder, filter sale.ListFilter) squirrel.SelectBuilder {
	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"sale_number": pattern},
			squirrel.ILike{"customer": pattern},
			squirrel.ILike{"branch": pattern},
		})
	}

	if filter.Customer != "" {
		q = q.Where(squirrel.ILike{"customer": "%" + filter.Customer + "%"})
	}

	if filter.Branch != "" {
		q = q.Where(squirrel.Eq{"branch": filter.Branch})
	}

	if filter.Cancelled != nil {
		q = q.Where(squirrel.Eq{"is_cancelled": *filter.Cancelled})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"sale_date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"sale_date": *filter.DateTo})
	}

	return q
}
