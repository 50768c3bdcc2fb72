package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/calcledger/internal/adapters/database"
	"github.com/phenrril/calcledger/internal/app"
	"github.com/phenrril/calcledger/internal/config"
)

var errUsage = errors.New("usage: calcledger [export|import <file.xlsx>]")

// openDatabase is swapped in tests to observe the handle.
var openDatabase = database.Open

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	if err != nil {
		zlog.Error().Err(err).Msg("calcledger failed")
		os.Exit(1)
	}
}

// run owns every resource it opens; all of them are released before it
// returns, whatever the outcome.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(cfg.Level())
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen, NoColor: cfg.NoColor})

	if len(args) != 0 && len(args) != 2 {
		return errUsage
	}

	gormLog := logger.Default.LogMode(logger.Silent)
	if cfg.LogSQL {
		gormLog = logger.Default.LogMode(logger.Info)
	}
	db, err := openDatabase(cfg.DatabaseURI, &gorm.Config{Logger: gormLog})
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.DatabaseURI, err)
	}

	application, err := app.NewApp(db, cfg)
	if err != nil {
		_ = database.Close(db)
		return fmt.Errorf("create app: %w", err)
	}
	defer func() {
		if cerr := application.Close(); cerr != nil {
			zlog.Warn().Err(cerr).Msg("failed to close database")
		}
	}()
	if err := application.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	if len(args) == 0 {
		err := application.Console(stdin, stdout).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	switch args[0] {
	case "export":
		return export(ctx, application, args[1])
	case "import":
		return importFile(ctx, application, args[1])
	}
	return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
}

func export(ctx context.Context, application *app.App, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	snap, err := application.ExportXLSX(ctx, f)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	zlog.Info().Str("file", path).Str("snapshot", snap.ID.String()).Int("customers", len(snap.Customers)).Msg("export done")
	return nil
}

func importFile(ctx context.Context, application *app.App, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()
	rep, err := application.ImportXLSX(ctx, f)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	for _, s := range rep.Skipped {
		zlog.Warn().Int("row", s.Index).Str("name", s.Name).Err(s.Err).Msg("record skipped")
	}
	zlog.Info().Str("file", path).Int("imported", len(rep.Imported)).Int("skipped", len(rep.Skipped)).Msg("import done")
	return nil
}
