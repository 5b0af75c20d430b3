package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/nabava/internal/model"
)

// CreateItemParams holds the input for CreateItem.
type CreateItemParams struct {
	Name             string
	Unit             string
	Kind             string
	InitialStock     int
	BorrowRestricted bool
}

// CreateItem creates a new catalogue item. For requisition items the intake
// carve-out is applied: a fixed fraction of the initial stock becomes the
// reserved quantity and only the remainder is issuable.
func CreateItem(ctx context.Context, db *sql.DB, p CreateItemParams) (*model.Item, error) {
	if !model.ValidKind(p.Kind) {
		return nil, fmt.Errorf("invalid item kind %q", p.Kind)
	}
	if p.InitialStock < 0 {
		return nil, fmt.Errorf("initial stock: %w", model.ErrInvalidQuantity)
	}

	quantity, reserved := p.InitialStock, 0
	if p.Kind == model.KindRequisition {
		quantity, reserved = SplitIntake(p.InitialStock)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, unit, kind, quantity, reserved_quantity, borrow_restricted)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.Unit, p.Kind, quantity, reserved, p.BorrowRestricted,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var unit, imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, unit, kind, quantity, reserved_quantity, borrow_restricted,
		        active, image_mime, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &unit, &item.Kind, &item.Quantity, &item.ReservedQuantity,
		&item.BorrowRestricted, &item.Active, &imageMime, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Unit = unit.String
	item.ImageMime = imageMime.String
	return item, nil
}

// ListItems returns items, optionally filtered by kind. Inactive items are
// excluded unless includeInactive is set.
func ListItems(ctx context.Context, db *sql.DB, kind string, includeInactive bool) ([]model.Item, error) {
	query := `SELECT id, name, unit, kind, quantity, reserved_quantity, borrow_restricted,
	                 active, image_mime, created_at, updated_at
	          FROM items WHERE 1=1`
	var args []any

	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	if !includeInactive {
		query += ` AND active = 1`
	}

	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var unit, imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &unit, &item.Kind, &item.Quantity,
			&item.ReservedQuantity, &item.BorrowRestricted, &item.Active, &imageMime,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Unit = unit.String
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's metadata. Stock counts are only touched by
// the ledger and restock operations, never here.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, name, unit string, borrowRestricted bool) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, unit = ?, borrow_restricted = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		name, unit, borrowRestricted, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// SetItemActive soft-enables or soft-disables an item. Disabled items stay
// referenced by existing request logs; they only stop accepting new cart
// lines.
func SetItemActive(ctx context.Context, db *sql.DB, id int64, active bool) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		active, id,
	)
	if err != nil {
		return fmt.Errorf("setting item active: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// RestockItem adds new stock to an item. Requisition items run through the
// intake carve-out again, so part of the restock tops up the reserved pool.
func RestockItem(ctx context.Context, db *sql.DB, id int64, rawQuantity int) (*model.Item, error) {
	if rawQuantity <= 0 {
		return nil, fmt.Errorf("restock: %w", model.ErrInvalidQuantity)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var kind string
	err = tx.QueryRowContext(ctx, `SELECT kind FROM items WHERE id = ?`, id).Scan(&kind)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}

	issuable, reserved := rawQuantity, 0
	if kind == model.KindRequisition {
		issuable, reserved = SplitIntake(rawQuantity)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET quantity = quantity + ?, reserved_quantity = reserved_quantity + ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		issuable, reserved, id,
	)
	if err != nil {
		return nil, fmt.Errorf("restocking item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing restock: %w", err)
	}

	return GetItem(ctx, db, id)
}

// SetItemImage sets an item's image data.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
