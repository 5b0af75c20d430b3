package model

import "time"

// CartLine is a single pre-submission cart entry. Lines are owned by one
// user until they are consumed into a group request or removed; they carry
// no identity afterwards.
type CartLine struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ItemID    int64     `json:"item_id"`
	Kind      string    `json:"kind"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ItemName string `json:"item_name,omitempty"`
	ItemUnit string `json:"item_unit,omitempty"`
}
