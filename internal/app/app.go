package app

import (
	"context"
	"io"

	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/phenrril/calcledger/internal/adapters/console"
	"github.com/phenrril/calcledger/internal/adapters/database"
	"github.com/phenrril/calcledger/internal/adapters/repo/gormrepo"
	"github.com/phenrril/calcledger/internal/adapters/xlsx"
	"github.com/phenrril/calcledger/internal/config"
	"github.com/phenrril/calcledger/internal/domain"
	"github.com/phenrril/calcledger/internal/usecase"
)

type App struct {
	DB           *gorm.DB
	Config       *config.Config
	LedgerUC     *usecase.LedgerUC
	CalculatorUC *usecase.CalculatorUC
}

func NewApp(db *gorm.DB, cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	clock := gormrepo.NewClock()
	txRepo := gormrepo.NewTransactionRepo(db, clock)
	custRepo := gormrepo.NewCustomerRepo(db, clock)
	entryRepo := gormrepo.NewCustomerTransactionRepo(db, clock)

	app := &App{DB: db, Config: cfg}
	app.LedgerUC = &usecase.LedgerUC{
		Transactions: txRepo,
		Customers:    custRepo,
		Entries:      entryRepo,
		ListLimit:    cfg.ListLimit,
	}
	app.CalculatorUC = &usecase.CalculatorUC{Ledger: app.LedgerUC, DefaultDescription: cfg.DefaultDescription}
	return app, nil
}

// Migrate creates or updates the three ledger tables.
func (a *App) Migrate() error {
	if err := a.DB.AutoMigrate(&domain.Transaction{}, &domain.Customer{}, &domain.CustomerTransaction{}); err != nil {
		return err
	}
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_customer_transactions_customer_created ON customer_transactions(customer_id, created_at)").Error
	return nil
}

// Close releases the database handle.
func (a *App) Close() error {
	zlog.Debug().Msg("closing database")
	return database.Close(a.DB)
}

// Console builds the interactive front end over in and out.
func (a *App) Console(in io.Reader, out io.Writer) *console.Session {
	s := console.New(in, out, a.CalculatorUC, a.LedgerUC)
	if a.Config.NoColor {
		s.DisableColor()
	}
	return s
}

func (a *App) ExportXLSX(ctx context.Context, w io.Writer) (domain.Snapshot, error) {
	snap, err := a.LedgerUC.Snapshot(ctx)
	if err != nil {
		return snap, err
	}
	return snap, xlsx.Write(w, snap)
}

func (a *App) ImportXLSX(ctx context.Context, r io.Reader) (usecase.ImportReport, error) {
	recs, err := xlsx.Read(r)
	if err != nil {
		return usecase.ImportReport{}, err
	}
	return a.LedgerUC.ImportCustomerData(ctx, recs)
}
