package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id                INTEGER PRIMARY KEY,
    name              TEXT NOT NULL,
    unit              TEXT NOT NULL DEFAULT '',
    kind              TEXT NOT NULL CHECK (kind IN ('requisition', 'borrow')),
    quantity          INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    reserved_quantity INTEGER NOT NULL DEFAULT 0 CHECK (reserved_quantity >= 0),
    borrow_restricted INTEGER NOT NULL DEFAULT 0,
    active            INTEGER NOT NULL DEFAULT 1,
    image             BLOB,
    image_mime        TEXT,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reasons (
    id     INTEGER PRIMARY KEY,
    label  TEXT NOT NULL,
    custom INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS cart_lines (
    id         INTEGER PRIMARY KEY,
    user_id    INTEGER NOT NULL REFERENCES users(id),
    item_id    INTEGER NOT NULL REFERENCES items(id),
    kind       TEXT NOT NULL CHECK (kind IN ('requisition', 'borrow')),
    quantity   INTEGER NOT NULL CHECK (quantity > 0),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_cart_lines_user_kind ON cart_lines(user_id, kind);

CREATE TABLE IF NOT EXISTS group_requests (
    id                 TEXT PRIMARY KEY,
    user_id            INTEGER NOT NULL REFERENCES users(id),
    kind               TEXT NOT NULL CHECK (kind IN ('requisition', 'borrow')),
    status             TEXT NOT NULL DEFAULT 'pending'
                       CHECK (status IN ('pending', 'approved', 'approved_returned', 'not_approved')),
    delivery_method    TEXT NOT NULL CHECK (delivery_method IN ('pickup', 'delivery')),
    address            TEXT,
    reason_id          INTEGER NOT NULL REFERENCES reasons(id),
    custom_reason      TEXT,
    due_date           DATETIME,
    actual_return_date DATETIME,
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    decided_at         DATETIME
);

CREATE INDEX IF NOT EXISTS idx_group_requests_user ON group_requests(user_id);
CREATE INDEX IF NOT EXISTS idx_group_requests_status ON group_requests(status);

CREATE TABLE IF NOT EXISTS request_logs (
    id                 INTEGER PRIMARY KEY,
    group_id           TEXT NOT NULL REFERENCES group_requests(id),
    item_id            INTEGER NOT NULL REFERENCES items(id),
    requested_quantity INTEGER NOT NULL CHECK (requested_quantity > 0),
    approved_quantity  INTEGER CHECK (approved_quantity IS NULL OR
                       (approved_quantity >= 0 AND approved_quantity <= requested_quantity)),
    returned_quantity  INTEGER CHECK (returned_quantity IS NULL OR
                       (returned_quantity >= 0 AND returned_quantity <= approved_quantity))
);

CREATE INDEX IF NOT EXISTS idx_request_logs_group ON request_logs(group_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// seeds are idempotent statements applied after schema creation. The reason
// with id 99 is the custom sentinel: groups referencing it must carry free
// text instead of the label.
var seeds = []string{
	`INSERT OR IGNORE INTO reasons (id, label, custom) VALUES (1, 'Office use', 0)`,
	`INSERT OR IGNORE INTO reasons (id, label, custom) VALUES (2, 'Event', 0)`,
	`INSERT OR IGNORE INTO reasons (id, label, custom) VALUES (3, 'Teaching', 0)`,
	`INSERT OR IGNORE INTO reasons (id, label, custom) VALUES (4, 'Maintenance', 0)`,
	`INSERT OR IGNORE INTO reasons (id, label, custom) VALUES (99, 'Other', 1)`,
}

// EnsureSchema creates all tables and indexes if they don't already exist
// and applies the seed rows.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, s := range seeds {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("applying seed %d: %w", i+1, err)
		}
	}

	return nil
}
