package model

import "errors"

// Sentinel errors for the request/ledger core. The API layer maps these to
// HTTP status codes with errors.Is, so store code must wrap rather than
// replace them.
var (
	// ErrNotFound covers unknown item, group, line, and reason IDs.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock is returned when a debit would drive an item's
	// quantity negative. The caller may retry with smaller quantities.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidTransition is returned for any status change attempted from
	// a terminal or wrong state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// Cart validation.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrItemInactive    = errors.New("item is disabled")
	ErrItemRestricted  = errors.New("item cannot be borrowed")

	// Submission validation.
	ErrEmptyCart           = errors.New("cart is empty")
	ErrMissingReason       = errors.New("usage reason required")
	ErrMissingCustomReason = errors.New("custom reason text required")
	ErrMissingAddress      = errors.New("delivery address required")
	ErrMissingDueDate      = errors.New("return due date required")
	ErrDueDateInPast       = errors.New("return due date is in the past")

	// Approval validation.
	ErrMissingLineDecision      = errors.New("every request line needs an approved quantity")
	ErrApprovedExceedsRequested = errors.New("approved quantity exceeds requested quantity")
	ErrNothingApproved          = errors.New("at least one line must have a positive approved quantity")

	// Return validation.
	ErrMissingLineReturn       = errors.New("every request line needs a returned quantity")
	ErrReturnedExceedsApproved = errors.New("returned quantity exceeds approved quantity")
	ErrReturnDateInFuture      = errors.New("return date is in the future")
)

// IsValidation reports whether err is one of the input-validation sentinels
// (as opposed to contention, state, or lookup failures).
func IsValidation(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidQuantity, ErrItemInactive, ErrItemRestricted,
		ErrEmptyCart, ErrMissingReason, ErrMissingCustomReason,
		ErrMissingAddress, ErrMissingDueDate, ErrDueDateInPast,
		ErrMissingLineDecision, ErrApprovedExceedsRequested, ErrNothingApproved,
		ErrMissingLineReturn, ErrReturnedExceedsApproved, ErrReturnDateInFuture,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
