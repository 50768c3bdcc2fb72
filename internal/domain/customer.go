package domain

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:140;not null;index"`
	Phone     string    `gorm:"size:60"`
	Email     string    `gorm:"size:140"`
	Address   string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"index"`
}

// CustomerRecord is one imported row: the four mutable fields plus the
// encoded entries column, which is checked but never stored.
type CustomerRecord struct {
	Name         string
	Phone        string
	Email        string
	Address      string
	Transactions string
}

// CustomerExport is one row of a bulk export snapshot.
type CustomerExport struct {
	CustomerID   int64
	Name         string
	Phone        string
	Email        string
	Address      string
	CreatedAt    time.Time
	Transactions string // encoded with EncodeLedgerTriples
}

func (e CustomerExport) Record() CustomerRecord {
	return CustomerRecord{Name: e.Name, Phone: e.Phone, Email: e.Email, Address: e.Address, Transactions: e.Transactions}
}

// Balance aggregates a customer's credit and debit entries.
type Balance struct {
	CustomerID int64
	Credit     float64
	Debit      float64
	Entries    int
}

func (b Balance) Net() float64 { return b.Credit - b.Debit }

// Snapshot is a bulk export of every customer.
type Snapshot struct {
	ID          uuid.UUID
	GeneratedAt time.Time
	Customers   []CustomerExport
}
