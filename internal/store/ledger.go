package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/nabava/internal/model"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, so ledger mutations can
// run standalone or inside a group transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// reservePercent is the fraction of requisition intake withheld from
// ordinary requests, in percent.
const reservePercent = 1

// SplitIntake divides a raw intake quantity into the issuable portion and
// the reserved carve-out. The carve-out is reservePercent of the raw
// quantity, rounded to the nearest integer.
func SplitIntake(raw int) (issuable, reserved int) {
	reserved = (raw*reservePercent + 50) / 100
	return raw - reserved, reserved
}

// DebitStock decreases an item's issuable quantity. The decrement is
// conditional on sufficient stock, so two concurrent debits against the
// same item can never both pass a check that only one can satisfy.
func DebitStock(ctx context.Context, q dbtx, itemID int64, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("debit of %d: %w", amount, model.ErrInvalidQuantity)
	}

	result, err := q.ExecContext(ctx,
		`UPDATE items SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND quantity >= ?`,
		amount, itemID, amount,
	)
	if err != nil {
		return fmt.Errorf("debiting stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking debit result: %w", err)
	}
	if rows == 0 {
		// Either the item doesn't exist or the stock ran out.
		var count int
		if err := q.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM items WHERE id = ?`, itemID,
		).Scan(&count); err != nil {
			return fmt.Errorf("checking item existence: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("item %d: %w", itemID, model.ErrNotFound)
		}
		return fmt.Errorf("item %d: %w", itemID, model.ErrInsufficientStock)
	}

	return nil
}

// CreditStock increases an item's issuable quantity. No capacity ceiling is
// tracked, so increases beyond the original intake are accepted as restock.
func CreditStock(ctx context.Context, q dbtx, itemID int64, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("credit of %d: %w", amount, model.ErrInvalidQuantity)
	}

	result, err := q.ExecContext(ctx,
		`UPDATE items SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		amount, itemID,
	)
	if err != nil {
		return fmt.Errorf("crediting stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking credit result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("item %d: %w", itemID, model.ErrNotFound)
	}

	return nil
}
