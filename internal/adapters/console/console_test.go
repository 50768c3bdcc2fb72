package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/calcledger/internal/adapters/database"
	"github.com/phenrril/calcledger/internal/adapters/repo/gormrepo"
	"github.com/phenrril/calcledger/internal/domain"
	"github.com/phenrril/calcledger/internal/usecase"
)

func newSession(t *testing.T, input string) (*Session, *bytes.Buffer) {
	t.Helper()
	db, err := database.Open("sqlite://:memory:", &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Transaction{}, &domain.Customer{}, &domain.CustomerTransaction{}))
	t.Cleanup(func() { _ = database.Close(db) })

	clock := gormrepo.NewClock()
	ledger := &usecase.LedgerUC{
		Transactions: gormrepo.NewTransactionRepo(db, clock),
		Customers:    gormrepo.NewCustomerRepo(db, clock),
		Entries:      gormrepo.NewCustomerTransactionRepo(db, clock),
	}
	calc := &usecase.CalculatorUC{Ledger: ledger}

	var out bytes.Buffer
	s := New(strings.NewReader(input), &out, calc, ledger)
	s.DisableColor()
	return s, &out
}

func TestKeysDriveCalculator(t *testing.T) {
	s, out := newSession(t, "")
	ctx := context.Background()

	require.NoError(t, s.Exec(ctx, "12.5 * 4"))
	assert.Contains(t, out.String(), "12.5 * [4]")

	require.NoError(t, s.Exec(ctx, "="))
	assert.Equal(t, "50", s.State().Display())

	require.NoError(t, s.Exec(ctx, "sqrt"))
	assert.Equal(t, "7.0710678118654755", s.State().Display())

	require.NoError(t, s.Exec(ctx, "c"))
	assert.Equal(t, "0", s.State().Display())
}

func TestDivisionByZeroShowsError(t *testing.T) {
	s, out := newSession(t, "")
	require.NoError(t, s.Exec(context.Background(), "6 / 0 ="))
	assert.True(t, s.State().Failed())
	assert.Contains(t, out.String(), "[Error]")
}

func TestUnknownKey(t *testing.T) {
	s, _ := newSession(t, "")
	err := s.Exec(context.Background(), "2 frobnicate")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "2", s.State().Display())
}

func TestCommitRecordsTransaction(t *testing.T) {
	s, out := newSession(t, "")
	ctx := context.Background()

	require.NoError(t, s.Exec(ctx, "2 + 3 ="))
	require.NoError(t, s.Exec(ctx, "commit lunch"))
	assert.Contains(t, out.String(), "recorded transaction #1 (5)")
	assert.Equal(t, "0", s.State().Display())

	out.Reset()
	require.NoError(t, s.Exec(ctx, "tx"))
	assert.Contains(t, out.String(), "lunch")
}

func TestCommitFromEmptyDisplayShowsZero(t *testing.T) {
	s, out := newSession(t, "")
	ctx := context.Background()

	require.NoError(t, s.Exec(ctx, "7 *"))
	require.Equal(t, "", s.State().Display())
	require.NoError(t, s.Exec(ctx, "commit"))
	assert.Contains(t, out.String(), "recorded transaction #1 (0)")
}

func TestCustomerCommands(t *testing.T) {
	s, out := newSession(t, "")
	ctx := context.Background()

	require.NoError(t, s.Exec(ctx, "customer add Alice | 555 | Alice@Example.com | 1 Main St"))
	assert.Contains(t, out.String(), "added customer #1")

	require.NoError(t, s.Exec(ctx, "customer credit 1 100 opening"))
	require.NoError(t, s.Exec(ctx, "customer debit 1 40"))
	out.Reset()
	require.NoError(t, s.Exec(ctx, "customer balance 1"))
	assert.Contains(t, out.String(), "credit 100, debit 40, net 60 (2 entries)")

	out.Reset()
	require.NoError(t, s.Exec(ctx, "customer show 1"))
	assert.Contains(t, out.String(), "alice@example.com")

	require.NoError(t, s.Exec(ctx, "customer update 1 Alice B | 556 | alice@example.com | 2 Main St"))
	out.Reset()
	require.NoError(t, s.Exec(ctx, "customers"))
	assert.Contains(t, out.String(), "Alice B")

	require.NoError(t, s.Exec(ctx, "customer delete 1"))
	assert.ErrorIs(t, s.Exec(ctx, "customer show 1"), domain.ErrNotFound)

	out.Reset()
	require.NoError(t, s.Exec(ctx, "customer tx 1"))
	assert.Contains(t, out.String(), "opening")
}

func TestCustomerCommandErrors(t *testing.T) {
	s, _ := newSession(t, "")
	ctx := context.Background()

	assert.ErrorIs(t, s.Exec(ctx, "customer"), domain.ErrValidation)
	assert.ErrorIs(t, s.Exec(ctx, "customer show abc"), domain.ErrValidation)
	assert.ErrorIs(t, s.Exec(ctx, "customer credit 1 lots"), domain.ErrValidation)
	assert.ErrorIs(t, s.Exec(ctx, "customer credit 9 10"), domain.ErrForeignKey)
	assert.ErrorIs(t, s.Exec(ctx, "customer add Bob | 1 | not-an-email"), domain.ErrValidation)
	assert.ErrorIs(t, s.Exec(ctx, "customer frob 1"), domain.ErrValidation)
}

func TestRunStopsAtQuit(t *testing.T) {
	s, out := newSession(t, "7 + 1 =\nbogus-key\nquit\n9\n")
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "8", s.State().Display())
	assert.Contains(t, out.String(), "error: ")
}

func TestRunEndsAtEOF(t *testing.T) {
	s, out := newSession(t, "help\n")
	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, out.String(), "customer balance ID")
}

func TestRunStopsWhenContextCancelledWhileReading(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	s, out := newSession(t, "")
	s.in = pr

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	_, err := pw.Write([]byte("2 + 2\n"))
	require.NoError(t, err)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run still blocked on input after cancel")
	}
	assert.Contains(t, out.String(), "calcledger")
}
