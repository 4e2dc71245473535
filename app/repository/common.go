package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"

	"github.com/edukasiku/ms-go-premium/app/entity"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TransactionStore is the ledger surface available inside a unit of work.
type TransactionStore interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	FindByOrderID(ctx context.Context, orderID string) (*entity.Transaction, error)
	FindByOrderIDForUpdate(ctx context.Context, orderID string) (*entity.Transaction, error)
	UpdateStatusFrom(ctx context.Context, orderID string, from, to entity.TransactionStatus, gatewayTxnID, paymentType *string, now time.Time) (bool, error)
	FillGatewayMetadata(ctx context.Context, orderID string, gatewayTxnID, paymentType *string, now time.Time) error
	ListStalePending(ctx context.Context, cutoff time.Time) ([]*entity.Transaction, error)
}

// ProfileStore is the entitlement surface available inside a unit of work.
type ProfileStore interface {
	FindByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	FindByUserIDForUpdate(ctx context.Context, userID string) (*entity.Profile, error)
	UpdateEntitlement(ctx context.Context, userID string, role entity.Role, premiumUntil *time.Time, now time.Time) error
}

// UnitOfWork runs a function against transaction-bound repositories so that a
// ledger transition and its entitlement mutation commit or roll back as one.
type UnitOfWork struct {
	db *sql.DB
}

func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(txns TransactionStore, profiles ProfileStore) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(NewTransactionRepository(tx), NewProfileRepository(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func nullableStringValue(v *string) interface{} {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return strings.TrimSpace(*v)
}

func nullableTimeValue(v *time.Time) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
