package model

import "time"

// GroupRequest is the unit of administrative action: a set of request logs
// submitted together by one user. Groups are never deleted; terminal
// statuses close them for good.
type GroupRequest struct {
	ID               string     `json:"id"`
	UserID           int64      `json:"user_id"`
	Kind             string     `json:"kind"`
	Status           string     `json:"status"`
	DeliveryMethod   string     `json:"delivery_method"`
	Address          string     `json:"address,omitempty"`
	ReasonID         int64      `json:"reason_id"`
	CustomReason     string     `json:"custom_reason,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	DecidedAt        *time.Time `json:"decided_at,omitempty"`

	// Joined fields (not always populated).
	Username string       `json:"username,omitempty"`
	Logs     []RequestLog `json:"logs,omitempty"`
}

// RequestLog is one line item within a group request. ApprovedQuantity is
// nil until the group is decided; ReturnedQuantity is nil until a borrow
// group is reconciled.
type RequestLog struct {
	ID                int64  `json:"id"`
	GroupID           string `json:"group_id"`
	ItemID            int64  `json:"item_id"`
	RequestedQuantity int    `json:"requested_quantity"`
	ApprovedQuantity  *int   `json:"approved_quantity,omitempty"`
	ReturnedQuantity  *int   `json:"returned_quantity,omitempty"`

	// Joined fields (not always populated).
	ItemName string `json:"item_name,omitempty"`
	ItemUnit string `json:"item_unit,omitempty"`
}

// Group statuses.
const (
	StatusPending          = "pending"
	StatusApproved         = "approved"
	StatusApprovedReturned = "approved_returned"
	StatusNotApproved      = "not_approved"
)

// Delivery methods.
const (
	DeliverySelfPickup = "pickup"
	DeliveryDelivery   = "delivery"
)

// transitions is the legal status transition table. Statuses move one way
// only; anything not listed here is rejected.
var transitions = map[string][]string{
	StatusPending:  {StatusApproved, StatusNotApproved},
	StatusApproved: {StatusApprovedReturned},
}

// CanTransition reports whether a group of the given kind may move from one
// status to another. Requisition groups have no return step, so their
// approved status is terminal.
func CanTransition(kind, from, to string) bool {
	if kind == KindRequisition && to == StatusApprovedReturned {
		return false
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// GroupPage is one page of a group request listing.
type GroupPage struct {
	Items      []GroupRequest `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalItems int            `json:"total_items"`
	TotalPages int            `json:"total_pages"`
}
