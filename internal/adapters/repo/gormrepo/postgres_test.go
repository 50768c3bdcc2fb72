package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/calcledger/internal/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func fixedClock() *Clock {
	return NewClockFunc(func() time.Time { return time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC) })
}

func TestTransactionRepo_CreatePostgres(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepo(db, fixedClock())

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "transactions" (.+) VALUES (.+) RETURNING "id"`).
		WithArgs(12.5, "calc", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	tx := &domain.Transaction{Amount: 12.5, Description: "calc"}
	require.NoError(t, repo.Create(context.Background(), tx))
	assert.Equal(t, int64(7), tx.ID)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "transactions" (.+) VALUES (.+) RETURNING "id"`).
		WillReturnError(errors.New("create error"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &domain.Transaction{Amount: 1})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerTransactionRepo_ForeignKeyPostgres(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCustomerTransactionRepo(db, fixedClock())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &domain.CustomerTransaction{CustomerID: 42, Amount: 100, Kind: domain.KindCredit})
	assert.ErrorIs(t, err, domain.ErrForeignKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerTransactionRepo_CreatePostgres(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCustomerTransactionRepo(db, fixedClock())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "customer_transactions" (.+) VALUES (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	entry := &domain.CustomerTransaction{CustomerID: 3, Amount: 40, Kind: domain.KindDebit}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.Equal(t, int64(11), entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepo_FindByIDPostgresNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCustomerRepo(db, fixedClock())

	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY "customers"\."id" LIMIT`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.FindByID(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(fmt.Errorf("wrapped: %w", gorm.ErrRecordNotFound)), domain.ErrNotFound)
	assert.ErrorIs(t, mapError(gorm.ErrDuplicatedKey), domain.ErrAlreadyExists)
	assert.ErrorIs(t, mapError(gorm.ErrForeignKeyViolated), domain.ErrForeignKey)

	other := errors.New("disk full")
	assert.Equal(t, other, mapError(other))
}
