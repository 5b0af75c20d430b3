package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/nabava/internal/model"
)

// AddCartLine adds a line to the user's cart. The line's kind is the item's
// kind, so a user's requisition and borrow carts stay disjoint. Borrow items
// flagged as restricted are rejected here, before any submission.
func AddCartLine(ctx context.Context, db *sql.DB, userID, itemID int64, quantity int) (*model.CartLine, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("cart quantity: %w", model.ErrInvalidQuantity)
	}

	var kind string
	var restricted, active bool
	err := db.QueryRowContext(ctx,
		`SELECT kind, borrow_restricted, active FROM items WHERE id = ?`, itemID,
	).Scan(&kind, &restricted, &active)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", itemID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}
	if !active {
		return nil, fmt.Errorf("item %d: %w", itemID, model.ErrItemInactive)
	}
	if kind == model.KindBorrow && restricted {
		return nil, fmt.Errorf("item %d: %w", itemID, model.ErrItemRestricted)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO cart_lines (user_id, item_id, kind, quantity) VALUES (?, ?, ?, ?)`,
		userID, itemID, kind, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("adding cart line: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting cart line id: %w", err)
	}

	return GetCartLine(ctx, db, id)
}

// GetCartLine returns a cart line by ID.
func GetCartLine(ctx context.Context, db *sql.DB, id int64) (*model.CartLine, error) {
	line := &model.CartLine{}
	var unit sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT c.id, c.user_id, c.item_id, c.kind, c.quantity, c.created_at,
		        i.name AS item_name, i.unit AS item_unit
		 FROM cart_lines c
		 JOIN items i ON i.id = c.item_id
		 WHERE c.id = ?`, id,
	).Scan(&line.ID, &line.UserID, &line.ItemID, &line.Kind, &line.Quantity, &line.CreatedAt,
		&line.ItemName, &unit)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting cart line: %w", err)
	}
	line.ItemUnit = unit.String
	return line, nil
}

// RemoveCartLine removes a line from the user's cart. Removing a missing
// line is a no-op: the UI tolerates double deletes.
func RemoveCartLine(ctx context.Context, db *sql.DB, userID, lineID int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM cart_lines WHERE id = ? AND user_id = ?`,
		lineID, userID,
	)
	if err != nil {
		return fmt.Errorf("removing cart line: %w", err)
	}
	return nil
}

// ListCartLines returns the user's cart lines of the given kind, oldest
// first. An empty kind returns both carts.
func ListCartLines(ctx context.Context, db *sql.DB, userID int64, kind string) ([]model.CartLine, error) {
	query := `SELECT c.id, c.user_id, c.item_id, c.kind, c.quantity, c.created_at,
	                 i.name AS item_name, i.unit AS item_unit
	          FROM cart_lines c
	          JOIN items i ON i.id = c.item_id
	          WHERE c.user_id = ?`
	args := []any{userID}

	if kind != "" {
		query += ` AND c.kind = ?`
		args = append(args, kind)
	}

	query += ` ORDER BY c.id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var line model.CartLine
		var unit sql.NullString
		if err := rows.Scan(&line.ID, &line.UserID, &line.ItemID, &line.Kind, &line.Quantity,
			&line.CreatedAt, &line.ItemName, &unit); err != nil {
			return nil, fmt.Errorf("scanning cart line: %w", err)
		}
		line.ItemUnit = unit.String
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
