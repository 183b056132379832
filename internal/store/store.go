// Package store is the persistence gateway over the canonical schema. It
// works unchanged on the Postgres and SQLite dialects.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xelth-com/asbuiltgo/internal/database"
)

var (
	// ErrNotFound is returned by point lookups and deletes of unknown ids
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable marks connection-level failures
	ErrUnavailable = errors.New("storage unavailable")
)

// Store is the persistence gateway
type Store struct {
	db  *database.DB
	log *zap.Logger
}

// New creates a store over an open database
func New(db *database.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// DB exposes the underlying database wrapper
func (s *Store) DB() *database.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// classify maps driver errors onto the store sentinels
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// Ping checks that the database answers
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB.DB()
	if err != nil {
		return classify(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
