package gormrepo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/phenrril/calcledger/internal/domain"
)

type CustomerTransactionRepo struct {
	db    *gorm.DB
	clock *Clock
}

func NewCustomerTransactionRepo(db *gorm.DB, clock *Clock) *CustomerTransactionRepo {
	return &CustomerTransactionRepo{db: db, clock: clock}
}

// Create checks the customer exists and inserts the entry in one database
// transaction.
func (r *CustomerTransactionRepo) Create(ctx context.Context, t *domain.CustomerTransaction) error {
	if !t.Kind.Valid() {
		return fmt.Errorf("%w: kind %q", domain.ErrValidation, t.Kind)
	}
	return wrap(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var n int64
			if err := tx.Model(&domain.Customer{}).Where("id = ?", t.CustomerID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: id %d", domain.ErrForeignKey, t.CustomerID)
			}
			t.ID = 0
			t.CreatedAt = r.clock.Now()
			return tx.Create(t).Error
		})
	})
}

// ListByCustomer returns the customer's entries newest first. It does not
// require the customer to still exist.
func (r *CustomerTransactionRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.CustomerTransaction, error) {
	var list []domain.CustomerTransaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Order("id desc").
		Find(&list).Error
	if err != nil {
		return nil, mapError(err)
	}
	return list, nil
}

// ListAll returns every entry grouped by customer, oldest first within each.
func (r *CustomerTransactionRepo) ListAll(ctx context.Context) ([]domain.CustomerTransaction, error) {
	var list []domain.CustomerTransaction
	err := r.db.WithContext(ctx).
		Order("customer_id asc").
		Order("created_at asc").
		Order("id asc").
		Find(&list).Error
	if err != nil {
		return nil, mapError(err)
	}
	return list, nil
}

type kindTotal struct {
	Kind  domain.TransactionKind
	Total float64
	N     int
}

func (r *CustomerTransactionRepo) Totals(ctx context.Context, customerID int64) (domain.Balance, error) {
	var rows []kindTotal
	err := r.db.WithContext(ctx).
		Model(&domain.CustomerTransaction{}).
		Select("kind, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS n").
		Where("customer_id = ?", customerID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return domain.Balance{}, mapError(err)
	}
	b := domain.Balance{CustomerID: customerID}
	for _, row := range rows {
		switch row.Kind {
		case domain.KindCredit:
			b.Credit = row.Total
		case domain.KindDebit:
			b.Debit = row.Total
		}
		b.Entries += row.N
	}
	return b, nil
}
