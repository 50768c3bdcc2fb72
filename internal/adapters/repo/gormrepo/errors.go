package gormrepo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/phenrril/calcledger/internal/domain"
)

// mapError turns gorm errors into domain errors. Errors already carrying a
// domain sentinel pass through unchanged.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.ErrForeignKey
	}
	return err
}

func wrap(op func() error) error { return mapError(op()) }
