package sale

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/internal/core/apperror"
	"salesdesk/internal/core/id"
	"salesdesk/internal/core/types"
	"salesdesk/internal/domain"
)

// Mock objects

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockRepo struct {
	sales map[id.ID]*Sale
	items map[id.ID][]SaleItem

	createErr error
	updateErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		sales: make(map[id.ID]*Sale),
		items: make(map[id.ID][]SaleItem),
	}
}

func (m *mockRepo) Create(ctx context.Context, s *Sale) error {
	if m.createErr != nil {
		return m.createErr
	}
	stored := *s
	m.sales[s.ID] = &stored
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	s, ok := m.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sales", saleID.String())
	}
	out := *s
	return &out, nil
}

func (m *mockRepo) GetByNumber(ctx context.Context, number string) (*Sale, error) {
	for _, s := range m.sales {
		if s.SaleNumber == number {
			out := *s
			return &out, nil
		}
	}
	return nil, apperror.NewNotFound("sales", number)
}

func (m *mockRepo) Update(ctx context.Context, s *Sale) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.sales[s.ID]; !ok {
		return apperror.NewNotFound("sales", s.ID.String())
	}
	stored := *s
	m.sales[s.ID] = &stored
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, saleID id.ID) error {
	s, ok := m.sales[saleID]
	if !ok {
		return apperror.NewNotFound("sales", saleID.String())
	}
	s.DeletionMark = true
	return nil
}

func (m *mockRepo) GetItems(ctx context.Context, saleID id.ID) ([]SaleItem, error) {
	return m.items[saleID], nil
}

func (m *mockRepo) SaveItems(ctx context.Context, saleID id.ID, items []SaleItem) error {
	m.items[saleID] = append([]SaleItem(nil), items...)
	return nil
}

func (m *mockRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	result := domain.ListResult[*Sale]{Limit: filter.Limit, Offset: filter.Offset}
	for _, s := range m.sales {
		out := *s
		result.Items = append(result.Items, &out)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func newTestService(repo *mockRepo) (*Service, *mockTxManager) {
	txm := &mockTxManager{}
	svc := NewService(
		repo,
		NewValidatorWithClock(func() time.Time { return testNow }),
		fixedGenerator{number: "SAL0000001"},
		txm,
	)
	return svc, txm
}

func TestService_Create(t *testing.T) {
	repo := newMockRepo()
	svc, txm := newTestService(repo)

	s := NewSale("ACME Corp", "Main Branch", testNow)
	s.AddItem("Widget", 5, types.MustMoney("10.50"))

	err := svc.Create(context.Background(), s)
	require.NoError(t, err)

	// Number generated, pricing applied, persisted in one transaction
	assert.Equal(t, "SAL0000001", s.SaleNumber)
	assert.True(t, s.TotalAmount.Equal(types.MustMoney("47.25")))
	assert.Equal(t, 1, txm.calls)

	stored, ok := repo.sales[s.ID]
	require.True(t, ok)
	assert.True(t, stored.TotalAmount.Equal(types.MustMoney("47.25")))
	require.Len(t, repo.items[s.ID], 1)
	assert.True(t, repo.items[s.ID][0].Discount.Equal(types.MustMoney("10")))
}

func TestService_Create_KeepsSuppliedNumber(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	s := NewSale("ACME Corp", "Main Branch", testNow)
	s.SaleNumber = "CUSTOM0001"
	s.AddItem("Widget", 2, types.MustMoney("5.00"))

	require.NoError(t, svc.Create(context.Background(), s))
	assert.Equal(t, "CUSTOM0001", s.SaleNumber)
}

func TestService_Create_ValidationFailure(t *testing.T) {
	repo := newMockRepo()
	svc, txm := newTestService(repo)

	s := NewSale("", "Main Branch", testNow) // missing customer
	s.AddItem("Widget", 2, types.MustMoney("5.00"))

	err := svc.Create(context.Background(), s)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	// Nothing persisted
	assert.Equal(t, 0, txm.calls)
	assert.Empty(t, repo.sales)
}

func TestService_Create_NilSale(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	err := svc.Create(context.Background(), nil)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeArgument, appErr.Code)
}

func TestService_GetByID(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	s := NewSale("ACME Corp", "Main Branch", testNow)
	s.AddItem("Widget", 2, types.MustMoney("5.00"))
	require.NoError(t, svc.Create(context.Background(), s))

	got, err := svc.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Len(t, got.Items, 1)
}

func TestService_GetByID_NotFound(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	_, err := svc.GetByID(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Update(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	s := NewSale("ACME Corp", "Main Branch", testNow)
	s.AddItem("Widget", 5, types.MustMoney("10.50"))
	require.NoError(t, svc.Create(context.Background(), s))

	proposed := *s
	proposed.Items = append([]SaleItem(nil), s.Items...)
	proposed.Items[0].Quantity = 10

	updated, err := svc.Update(context.Background(), s.ID, &proposed)
	require.NoError(t, err)
	assert.True(t, updated.Items[0].Discount.Equal(types.MustMoney("20")))
	assert.True(t, updated.TotalAmount.Equal(types.MustMoney("84.00")))

	stored := repo.sales[s.ID]
	assert.True(t, stored.TotalAmount.Equal(types.MustMoney("84.00")))
}

func TestService_Update_ImmutableCustomer(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	s := NewSale("ACME Corp", "Main Branch", testNow)
	s.AddItem("Widget", 5, types.MustMoney("10.50"))
	require.NoError(t, svc.Create(context.Background(), s))

	proposed := *s
	proposed.Items = append([]SaleItem(nil), s.Items...)
	proposed.Customer = "Other Corp"

	_, err := svc.Update(context.Background(), s.ID, &proposed)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_Cancel(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	s := NewSale("ACME Corp", "Main Branch", testNow)
	s.AddItem("Widget", 2, types.MustMoney("5.00"))
	require.NoError(t, svc.Create(context.Background(), s))

	cancelled, err := svc.Cancel(context.Background(), s.ID, true)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled)
	assert.True(t, repo.sales[s.ID].IsCancelled)

	reinstated, err := svc.Cancel(context.Background(), s.ID, false)
	require.NoError(t, err)
	assert.False(t, reinstated.IsCancelled)
}

func TestService_Delete(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	s := NewSale("ACME Corp", "Main Branch", testNow)
	s.AddItem("Widget", 2, types.MustMoney("5.00"))
	require.NoError(t, svc.Create(context.Background(), s))

	require.NoError(t, svc.Delete(context.Background(), s.ID))
	assert.True(t, repo.sales[s.ID].DeletionMark)
}

func TestService_Hooks(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	var events []string
	svc.Hooks().On(domain.BeforeCreate, func(ctx context.Context, s *Sale) error {
		events = append(events, "before_create")
		return nil
	})
	svc.Hooks().On(domain.AfterCreate, func(ctx context.Context, s *Sale) error {
		events = append(events, "after_create")
		return nil
	})

	s := NewSale("ACME Corp", "Main Branch", testNow)
	s.AddItem("Widget", 2, types.MustMoney("5.00"))
	require.NoError(t, svc.Create(context.Background(), s))

	assert.Equal(t, []string{"before_create", "after_create"}, events)
}
