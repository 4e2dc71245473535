package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/edukasiku/ms-go-premium/app/entity"
)

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrOrderIDAlreadyExists = errors.New("order id already exists")
)

type TransactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, user_id, package_id, amount, duration_months, order_id, status,
	       gateway_transaction_id, payment_type, created_at, updated_at`

func (r *TransactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	query := `
		INSERT INTO transactions (
			user_id, package_id, amount, duration_months, order_id, status,
			gateway_transaction_id, payment_type, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		txn.UserID,
		txn.PackageID,
		txn.Amount,
		txn.DurationMonths,
		txn.OrderID,
		string(txn.Status),
		nullableStringValue(txn.GatewayTransactionID),
		nullableStringValue(txn.PaymentType),
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrOrderIDAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	txn.ID = uint64(id)
	return nil
}

func (r *TransactionRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE order_id = ?
	`
	return r.findOne(ctx, query, orderID)
}

// FindByOrderIDForUpdate takes a row lock on the transaction so that
// concurrent webhook deliveries for the same order are serialized. Must run
// inside a unit of work.
func (r *TransactionRepository) FindByOrderIDForUpdate(ctx context.Context, orderID string) (*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE order_id = ?
		FOR UPDATE
	`
	return r.findOne(ctx, query, orderID)
}

// UpdateStatusFrom is a compare-and-swap write: the update applies only while
// the row still holds the expected prior status. It returns false when the
// guard no longer matches, which means another delivery won the transition.
// Metadata columns use COALESCE so a value set once is never overwritten.
func (r *TransactionRepository) UpdateStatusFrom(
	ctx context.Context,
	orderID string,
	from, to entity.TransactionStatus,
	gatewayTxnID, paymentType *string,
	now time.Time,
) (bool, error) {
	query := `
		UPDATE transactions
		SET status = ?,
		    gateway_transaction_id = COALESCE(gateway_transaction_id, ?),
		    payment_type = COALESCE(payment_type, ?),
		    updated_at = ?
		WHERE order_id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		string(to),
		nullableStringValue(gatewayTxnID),
		nullableStringValue(paymentType),
		now,
		orderID,
		string(from),
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// FillGatewayMetadata records gateway identifiers carried by a non-transition
// notification without touching status. COALESCE keeps first-written values.
// The driver reports changed rows rather than matched rows, so a redelivery
// that changes nothing affects zero rows; callers have already confirmed the
// row under FOR UPDATE, and the no-op write is not an error.
func (r *TransactionRepository) FillGatewayMetadata(
	ctx context.Context,
	orderID string,
	gatewayTxnID, paymentType *string,
	now time.Time,
) error {
	query := `
		UPDATE transactions
		SET gateway_transaction_id = COALESCE(gateway_transaction_id, ?),
		    payment_type = COALESCE(payment_type, ?),
		    updated_at = ?
		WHERE order_id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		nullableStringValue(gatewayTxnID),
		nullableStringValue(paymentType),
		now,
		orderID,
	)
	return err
}

func (r *TransactionRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status = ?
		  AND created_at < ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, string(entity.TransactionStatusPending), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Transaction, 0)
	for rows.Next() {
		item := &entity.Transaction{}
		if err := scanTransaction(rows, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *TransactionRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Transaction, error) {
	item := &entity.Transaction{}
	if err := scanTransaction(
		r.db.QueryRowContext(ctx, query, args...),
		item,
	); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return item, nil
}

func scanTransaction(scanner rowScanner, item *entity.Transaction) error {
	var status string
	var gatewayTxnID sql.NullString
	var paymentType sql.NullString

	err := scanner.Scan(
		&item.ID,
		&item.UserID,
		&item.PackageID,
		&item.Amount,
		&item.DurationMonths,
		&item.OrderID,
		&status,
		&gatewayTxnID,
		&paymentType,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	item.Status = entity.TransactionStatus(status)
	if gatewayTxnID.Valid {
		item.GatewayTransactionID = &gatewayTxnID.String
	} else {
		item.GatewayTransactionID = nil
	}
	if paymentType.Valid {
		item.PaymentType = &paymentType.String
	} else {
		item.PaymentType = nil
	}

	return nil
}
