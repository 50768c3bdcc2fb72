package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var ErrUnsupportedURI = errors.New("unsupported database uri")

func dialect(uri string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return postgres.Open(uri), nil
	case strings.HasPrefix(uri, "sqlite://"):
		path := strings.TrimPrefix(uri, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("%w: empty sqlite path", ErrUnsupportedURI)
		}
		return sqlite.Open(path), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedURI, uri)
}

// IsSQLite reports whether uri selects the embedded backend.
func IsSQLite(uri string) bool { return strings.HasPrefix(uri, "sqlite://") }

// Open connects to the database named by uri: sqlite://<path> or a
// postgres:// URL. Driver constraint errors are always translated to gorm's
// ErrDuplicatedKey and ErrForeignKeyViolated. The embedded backend is limited
// to one connection so an in-memory database is shared by every caller.
func Open(uri string, cfg *gorm.Config) (*gorm.DB, error) {
	d, err := dialect(uri)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &gorm.Config{}
	}
	cfg.TranslateError = true
	db, err := gorm.Open(d, cfg)
	if err != nil {
		return nil, err
	}
	if IsSQLite(uri) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
