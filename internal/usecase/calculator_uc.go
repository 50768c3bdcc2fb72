package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/phenrril/calcledger/internal/calculator"
	"github.com/phenrril/calcledger/internal/domain"
)

const DefaultDescription = "Transaction Description"

type CalculatorUC struct {
	Ledger             *LedgerUC
	DefaultDescription string
}

// Commit records the displayed value as a flat transaction and returns the
// cleared calculator with the stored id, amount and description. An empty
// display records zero. Nothing is stored when the display is not a finite
// number.
func (uc *CalculatorUC) Commit(ctx context.Context, s calculator.State, description string) (calculator.State, domain.Transaction, error) {
	amount := 0.0
	if s.Display() != "" {
		v, err := s.Value()
		if err != nil {
			return s, domain.Transaction{}, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return s, domain.Transaction{}, fmt.Errorf("%w: cannot record %s", domain.ErrInvalidInput, s.Display())
		}
		amount = v
	}
	desc := strings.TrimSpace(description)
	if desc == "" {
		desc = uc.DefaultDescription
	}
	if desc == "" {
		desc = DefaultDescription
	}
	id, err := uc.Ledger.AddTransaction(ctx, amount, desc)
	if err != nil {
		return s, domain.Transaction{}, err
	}
	return s.Clear(), domain.Transaction{ID: id, Amount: amount, Description: desc}, nil
}
