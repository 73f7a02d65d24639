package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("record already exists")
	ErrConstraint  = errors.New("constraint violation")
	ErrUnavailable = errors.New("database unavailable")
	ErrStale       = errors.New("record changed since it was read")
)

// OpError records which statement failed and on which table.
type OpError struct {
	Op    string
	Table string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// wrap classifies err and attaches op/table context. nil stays nil.
func wrap(err error, op, table string) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Table: table, Err: classify(err)}
}

// classify maps driver and gorm errors onto the package sentinels while
// keeping the original error in the chain.
func classify(err error) error {
	var (
		netErr  net.Error
		pgErr   *pgconn.PgError
		connErr *pgconn.ConnectError
	)
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case "23502", "23503", "23514":
			return fmt.Errorf("%w: %w", ErrConstraint, err)
		}
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrConstraint), errors.Is(err, ErrUnavailable),
		errors.Is(err, ErrStale):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrConstraint, err)
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &connErr), errors.As(err, &netErr):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return err
	}
}
