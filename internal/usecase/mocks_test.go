package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/phenrril/calcledger/internal/domain"
)

type mockTransactionRepo struct{ mock.Mock }

func (m *mockTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTransactionRepo) ListRecent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, limit)
	list, _ := args.Get(0).([]domain.Transaction)
	return list, args.Error(1)
}

type mockCustomerRepo struct{ mock.Mock }

func (m *mockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCustomerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.Customer)
	return list, args.Error(1)
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.Customer)
	return c, args.Error(1)
}

func (m *mockCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockEntryRepo struct{ mock.Mock }

func (m *mockEntryRepo) Create(ctx context.Context, t *domain.CustomerTransaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockEntryRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.CustomerTransaction, error) {
	args := m.Called(ctx, customerID)
	list, _ := args.Get(0).([]domain.CustomerTransaction)
	return list, args.Error(1)
}

func (m *mockEntryRepo) ListAll(ctx context.Context) ([]domain.CustomerTransaction, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.CustomerTransaction)
	return list, args.Error(1)
}

func (m *mockEntryRepo) Totals(ctx context.Context, customerID int64) (domain.Balance, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(domain.Balance), args.Error(1)
}

func newLedger() (*LedgerUC, *mockTransactionRepo, *mockCustomerRepo, *mockEntryRepo) {
	tr, cr, er := &mockTransactionRepo{}, &mockCustomerRepo{}, &mockEntryRepo{}
	return &LedgerUC{Transactions: tr, Customers: cr, Entries: er}, tr, cr, er
}
