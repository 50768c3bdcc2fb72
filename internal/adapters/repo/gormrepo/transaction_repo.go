package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/phenrril/calcledger/internal/domain"
)

const DefaultListLimit = 100

type TransactionRepo struct {
	db    *gorm.DB
	clock *Clock
}

func NewTransactionRepo(db *gorm.DB, clock *Clock) *TransactionRepo {
	return &TransactionRepo{db: db, clock: clock}
}

func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	t.ID = 0
	t.CreatedAt = r.clock.Now()
	return wrap(func() error { return r.db.WithContext(ctx).Create(t).Error })
}

// ListRecent returns at most limit transactions, newest first.
func (r *TransactionRepo) ListRecent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	var list []domain.Transaction
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, mapError(err)
	}
	return list, nil
}
