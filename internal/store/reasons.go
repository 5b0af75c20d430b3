package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/nabava/internal/model"
)

// ListReasons returns all usage reasons, the custom sentinel last.
func ListReasons(ctx context.Context, db *sql.DB) ([]model.Reason, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, label, custom FROM reasons ORDER BY custom, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reasons: %w", err)
	}
	defer rows.Close()

	var reasons []model.Reason
	for rows.Next() {
		var reason model.Reason
		if err := rows.Scan(&reason.ID, &reason.Label, &reason.Custom); err != nil {
			return nil, fmt.Errorf("scanning reason: %w", err)
		}
		reasons = append(reasons, reason)
	}
	return reasons, rows.Err()
}

// GetReason returns a usage reason by ID.
func GetReason(ctx context.Context, db *sql.DB, id int64) (*model.Reason, error) {
	reason := &model.Reason{}
	err := db.QueryRowContext(ctx,
		`SELECT id, label, custom FROM reasons WHERE id = ?`, id,
	).Scan(&reason.ID, &reason.Label, &reason.Custom)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting reason: %w", err)
	}
	return reason, nil
}
