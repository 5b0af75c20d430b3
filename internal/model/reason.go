package model

// Reason is a predefined usage reason a request can reference. The custom
// sentinel row requires free text on the group request instead of a label.
type Reason struct {
	ID     int64  `json:"id"`
	Label  string `json:"label"`
	Custom bool   `json:"custom"`
}
