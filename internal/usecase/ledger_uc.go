package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/phenrril/calcledger/internal/domain"
)

const defaultListLimit = 100

var validate = validator.New()

// CustomerInput carries the four mutable customer fields. Updates replace all
// of them.
type CustomerInput struct {
	Name    string `validate:"required,max=140"`
	Phone   string `validate:"max=60"`
	Email   string `validate:"required,email,max=140"`
	Address string `validate:"max=255"`
}

func (in CustomerInput) normalized() CustomerInput {
	return CustomerInput{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Address: strings.TrimSpace(in.Address),
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
		}
		return fmt.Errorf("%w: invalid %s", domain.ErrValidation, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

func checkAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: amount must be a finite number", domain.ErrValidation)
	}
	return nil
}

type LedgerUC struct {
	Transactions domain.TransactionRepo
	Customers    domain.CustomerRepo
	Entries      domain.CustomerTransactionRepo
	// ListLimit caps ListTransactions; zero means 100.
	ListLimit int
	Now       func() time.Time
}

func (uc *LedgerUC) AddTransaction(ctx context.Context, amount float64, description string) (int64, error) {
	if err := checkAmount(amount); err != nil {
		return 0, err
	}
	t := &domain.Transaction{Amount: amount, Description: description}
	if err := uc.Transactions.Create(ctx, t); err != nil {
		return 0, err
	}
	zlog.Debug().Int64("id", t.ID).Float64("amount", amount).Msg("transaction recorded")
	return t.ID, nil
}

// ListTransactions returns the most recent transactions, newest first.
func (uc *LedgerUC) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	limit := uc.ListLimit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return uc.Transactions.ListRecent(ctx, limit)
}

func (uc *LedgerUC) AddCustomer(ctx context.Context, in CustomerInput) (int64, error) {
	in = in.normalized()
	if err := validate.Struct(in); err != nil {
		return 0, validationError(err)
	}
	c := &domain.Customer{Name: in.Name, Phone: in.Phone, Email: in.Email, Address: in.Address}
	if err := uc.Customers.Create(ctx, c); err != nil {
		return 0, err
	}
	zlog.Info().Int64("customer_id", c.ID).Str("name", c.Name).Msg("customer created")
	return c.ID, nil
}

func (uc *LedgerUC) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return uc.Customers.List(ctx)
}

func (uc *LedgerUC) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return uc.Customers.FindByID(ctx, id)
}

func (uc *LedgerUC) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) error {
	in = in.normalized()
	if err := validate.Struct(in); err != nil {
		return validationError(err)
	}
	c := &domain.Customer{ID: id, Name: in.Name, Phone: in.Phone, Email: in.Email, Address: in.Address}
	if err := uc.Customers.Update(ctx, c); err != nil {
		return err
	}
	zlog.Info().Int64("customer_id", id).Msg("customer updated")
	return nil
}

// DeleteCustomer removes the customer. Its credit and debit entries are kept
// and stay listable by id.
func (uc *LedgerUC) DeleteCustomer(ctx context.Context, id int64) error {
	if err := uc.Customers.Delete(ctx, id); err != nil {
		return err
	}
	zlog.Info().Int64("customer_id", id).Msg("customer deleted")
	return nil
}

func (uc *LedgerUC) AddCustomerTransaction(ctx context.Context, customerID int64, amount float64, kind, description string) (int64, error) {
	k, err := domain.ParseTransactionKind(strings.TrimSpace(kind))
	if err != nil {
		return 0, err
	}
	if err := checkAmount(amount); err != nil {
		return 0, err
	}
	t := &domain.CustomerTransaction{CustomerID: customerID, Amount: amount, Kind: k, Description: description}
	if err := uc.Entries.Create(ctx, t); err != nil {
		return 0, err
	}
	zlog.Debug().Int64("id", t.ID).Int64("customer_id", customerID).Str("kind", string(k)).Float64("amount", amount).Msg("customer transaction recorded")
	return t.ID, nil
}

func (uc *LedgerUC) ListCustomerTransactions(ctx context.Context, customerID int64) ([]domain.CustomerTransaction, error) {
	return uc.Entries.ListByCustomer(ctx, customerID)
}

func (uc *LedgerUC) CustomerBalance(ctx context.Context, customerID int64) (domain.Balance, error) {
	return uc.Entries.Totals(ctx, customerID)
}

// ExportCustomerData lists every customer with its entries encoded as
// triples, oldest entry first. Entries of deleted customers are not exported.
func (uc *LedgerUC) ExportCustomerData(ctx context.Context) ([]domain.CustomerExport, error) {
	customers, err := uc.Customers.List(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := uc.Entries.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byCustomer := make(map[int64][]domain.CustomerTransaction)
	for _, e := range entries {
		byCustomer[e.CustomerID] = append(byCustomer[e.CustomerID], e)
	}
	out := make([]domain.CustomerExport, 0, len(customers))
	for _, c := range customers {
		out = append(out, domain.CustomerExport{
			CustomerID:   c.ID,
			Name:         c.Name,
			Phone:        c.Phone,
			Email:        c.Email,
			Address:      c.Address,
			CreatedAt:    c.CreatedAt,
			Transactions: domain.EncodeLedgerTriples(domain.TriplesOf(byCustomer[c.ID])),
		})
	}
	return out, nil
}

// Snapshot wraps ExportCustomerData with an identifier and a generation time.
func (uc *LedgerUC) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	rows, err := uc.ExportCustomerData(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}
	snap := domain.Snapshot{ID: uuid.New(), GeneratedAt: now().UTC(), Customers: rows}
	zlog.Info().Str("snapshot_id", snap.ID.String()).Int("customers", len(rows)).Msg("customer snapshot taken")
	return snap, nil
}

type ImportFailure struct {
	Index int
	Name  string
	Err   error
}

type ImportReport struct {
	Imported []int64
	Skipped  []ImportFailure
}

// ImportCustomerData inserts one customer per record. Only name, phone,
// email and address are stored. The entries column must decode but its
// entries are not recreated. A record that fails is skipped and reported;
// the rest are still imported.
func (uc *LedgerUC) ImportCustomerData(ctx context.Context, records []domain.CustomerRecord) (ImportReport, error) {
	var rep ImportReport
	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		id, err := uc.importRecord(ctx, r)
		if err != nil {
			zlog.Warn().Err(err).Int("record", i).Str("name", r.Name).Msg("import record skipped")
			rep.Skipped = append(rep.Skipped, ImportFailure{Index: i, Name: r.Name, Err: err})
			continue
		}
		rep.Imported = append(rep.Imported, id)
	}
	zlog.Info().Int("imported", len(rep.Imported)).Int("skipped", len(rep.Skipped)).Msg("customer import finished")
	return rep, nil
}

func (uc *LedgerUC) importRecord(ctx context.Context, r domain.CustomerRecord) (int64, error) {
	if _, err := domain.DecodeLedgerTriples(r.Transactions); err != nil {
		return 0, fmt.Errorf("transactions column: %w", err)
	}
	return uc.AddCustomer(ctx, CustomerInput{Name: r.Name, Phone: r.Phone, Email: r.Email, Address: r.Address})
}
