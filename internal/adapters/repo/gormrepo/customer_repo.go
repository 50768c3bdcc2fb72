package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/phenrril/calcledger/internal/domain"
)

type CustomerRepo struct {
	db    *gorm.DB
	clock *Clock
}

func NewCustomerRepo(db *gorm.DB, clock *Clock) *CustomerRepo {
	return &CustomerRepo{db: db, clock: clock}
}

func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	c.ID = 0
	c.CreatedAt = r.clock.Now()
	return wrap(func() error { return r.db.WithContext(ctx).Create(c).Error })
}

// List returns every customer ordered by name.
func (r *CustomerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	var list []domain.Customer
	if err := r.db.WithContext(ctx).Order("name asc").Order("id asc").Find(&list).Error; err != nil {
		return nil, mapError(err)
	}
	return list, nil
}

func (r *CustomerRepo) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Update overwrites name, phone, email and address. ID and CreatedAt are
// kept; c is refreshed with the stored row.
func (r *CustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	return wrap(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing domain.Customer
			if err := tx.First(&existing, "id = ?", c.ID).Error; err != nil {
				return err
			}
			if err := tx.Model(&existing).Updates(map[string]any{
				"name":    c.Name,
				"phone":   c.Phone,
				"email":   c.Email,
				"address": c.Address,
			}).Error; err != nil {
				return err
			}
			c.CreatedAt = existing.CreatedAt
			return nil
		})
	})
}

// Delete removes the customer row only. Its ledger entries stay behind.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Customer{}, "id = ?", id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
