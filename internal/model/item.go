package model

import "time"

// Item represents a catalogued item type (quantity-based, not individual
// tracking). Requisition items carry a reserved carve-out withheld from
// ordinary requests; borrow items may be flagged as not borrowable.
type Item struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Unit             string    `json:"unit"`
	Kind             string    `json:"kind"`
	Quantity         int       `json:"quantity"`
	ReservedQuantity int       `json:"reserved_quantity"`
	BorrowRestricted bool      `json:"borrow_restricted"`
	Active           bool      `json:"active"`
	ImageMime        string    `json:"image_mime,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Item (and group) kinds.
const (
	KindRequisition = "requisition"
	KindBorrow      = "borrow"
)

// ValidKind reports whether kind is a known item/group kind.
func ValidKind(kind string) bool {
	return kind == KindRequisition || kind == KindBorrow
}
