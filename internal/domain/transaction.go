package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Transaction is a flat ledger entry produced by the calculator.
type Transaction struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Amount      float64   `gorm:"not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"index"`
}

type TransactionKind string

const (
	KindCredit TransactionKind = "credit"
	KindDebit  TransactionKind = "debit"
)

func ParseTransactionKind(s string) (TransactionKind, error) {
	switch TransactionKind(s) {
	case KindCredit, KindDebit:
		return TransactionKind(s), nil
	}
	return "", fmt.Errorf("%w: kind must be credit or debit, got %q", ErrValidation, s)
}

func (k TransactionKind) Valid() bool { return k == KindCredit || k == KindDebit }

// CustomerTransaction is a credit or debit booked against one customer.
// CustomerID is not declared as a database foreign key: deleting a customer
// leaves its entries in place.
type CustomerTransaction struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	CustomerID  int64           `gorm:"not null;index"`
	Amount      float64         `gorm:"not null"`
	Kind        TransactionKind `gorm:"type:varchar(10);not null"`
	Description string          `gorm:"type:text"`
	CreatedAt   time.Time       `gorm:"index"`
}

type TransactionRepo interface {
	Create(ctx context.Context, t *Transaction) error
	ListRecent(ctx context.Context, limit int) ([]Transaction, error)
}

type CustomerRepo interface {
	Create(ctx context.Context, c *Customer) error
	List(ctx context.Context) ([]Customer, error)
	FindByID(ctx context.Context, id int64) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id int64) error
}

type CustomerTransactionRepo interface {
	// Create fails with ErrForeignKey when the customer does not exist.
	Create(ctx context.Context, t *CustomerTransaction) error
	ListByCustomer(ctx context.Context, customerID int64) ([]CustomerTransaction, error)
	ListAll(ctx context.Context) ([]CustomerTransaction, error)
	Totals(ctx context.Context, customerID int64) (Balance, error)
}

// LedgerTriple is the exported form of a customer transaction.
type LedgerTriple struct {
	Amount    float64
	Kind      TransactionKind
	Timestamp time.Time
}

const (
	tripleSep = ";"
	fieldSep  = ","
)

// EncodeLedgerTriples renders triples as "amount,kind,timestamp" joined by ";".
// Timestamps are RFC3339Nano in UTC. Neither field can contain a separator.
func EncodeLedgerTriples(ts []LedgerTriple) string {
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, strings.Join([]string{
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			string(t.Kind),
			t.Timestamp.UTC().Format(time.RFC3339Nano),
		}, fieldSep))
	}
	return strings.Join(parts, tripleSep)
}

func DecodeLedgerTriples(s string) ([]LedgerTriple, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []LedgerTriple
	for i, part := range strings.Split(s, tripleSep) {
		f := strings.Split(part, fieldSep)
		if len(f) != 3 {
			return nil, fmt.Errorf("%w: triple %d: want 3 fields, got %d", ErrValidation, i, len(f))
		}
		amount, err := strconv.ParseFloat(f[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: triple %d: amount %q", ErrValidation, i, f[0])
		}
		kind, err := ParseTransactionKind(f[1])
		if err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339Nano, f[2])
		if err != nil {
			return nil, fmt.Errorf("%w: triple %d: timestamp %q", ErrValidation, i, f[2])
		}
		out = append(out, LedgerTriple{Amount: amount, Kind: kind, Timestamp: ts})
	}
	return out, nil
}

func TriplesOf(list []CustomerTransaction) []LedgerTriple {
	out := make([]LedgerTriple, 0, len(list))
	for _, t := range list {
		out = append(out, LedgerTriple{Amount: t.Amount, Kind: t.Kind, Timestamp: t.CreatedAt})
	}
	return out
}
