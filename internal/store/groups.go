package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/nabava/internal/model"
)

// SubmitGroupParams holds the input for SubmitGroup. The lines themselves
// come from the user's cart of the given kind and are consumed atomically.
type SubmitGroupParams struct {
	Kind           string
	DeliveryMethod string
	Address        string
	ReasonID       int64
	CustomReason   string
	DueDate        *time.Time
}

// LineQuantity carries a per-line quantity for approval and return
// decisions, keyed by request log ID.
type LineQuantity struct {
	LogID    int64 `json:"log_id"`
	Quantity int   `json:"quantity"`
}

// SubmitGroup converts the user's cart of the given kind into one pending
// group request. Duplicate cart lines for the same item coalesce into a
// single request log. Requisition submissions debit the ledger immediately
// and fail as a whole if any line cannot be covered; borrow submissions
// leave the ledger untouched until approval.
func SubmitGroup(ctx context.Context, db *sql.DB, userID int64, p SubmitGroupParams) (*model.GroupRequest, error) {
	if !model.ValidKind(p.Kind) {
		return nil, fmt.Errorf("invalid group kind %q", p.Kind)
	}
	if p.DeliveryMethod != model.DeliverySelfPickup && p.DeliveryMethod != model.DeliveryDelivery {
		return nil, fmt.Errorf("invalid delivery method %q", p.DeliveryMethod)
	}
	if p.DeliveryMethod == model.DeliveryDelivery && strings.TrimSpace(p.Address) == "" {
		return nil, model.ErrMissingAddress
	}
	if p.ReasonID == 0 {
		return nil, model.ErrMissingReason
	}
	if p.Kind == model.KindBorrow {
		if p.DueDate == nil {
			return nil, model.ErrMissingDueDate
		}
		if p.DueDate.Before(startOfDay(time.Now())) {
			return nil, model.ErrDueDateInPast
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Check the reason; the custom sentinel needs free text.
	var custom bool
	err = tx.QueryRowContext(ctx, `SELECT custom FROM reasons WHERE id = ?`, p.ReasonID).Scan(&custom)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reason %d: %w", p.ReasonID, model.ErrMissingReason)
	}
	if err != nil {
		return nil, fmt.Errorf("checking reason: %w", err)
	}
	if custom && strings.TrimSpace(p.CustomReason) == "" {
		return nil, model.ErrMissingCustomReason
	}

	// Read the cart and coalesce duplicate entries per item.
	rows, err := tx.QueryContext(ctx,
		`SELECT item_id, quantity FROM cart_lines WHERE user_id = ? AND kind = ? ORDER BY id`,
		userID, p.Kind,
	)
	if err != nil {
		return nil, fmt.Errorf("reading cart: %w", err)
	}

	var itemOrder []int64
	itemTotals := make(map[int64]int)
	for rows.Next() {
		var itemID int64
		var quantity int
		if err := rows.Scan(&itemID, &quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning cart line: %w", err)
		}
		if _, seen := itemTotals[itemID]; !seen {
			itemOrder = append(itemOrder, itemID)
		}
		itemTotals[itemID] += quantity
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cart: %w", err)
	}

	if len(itemOrder) == 0 {
		return nil, model.ErrEmptyCart
	}

	// Requisition reserves stock at submission; a single shortfall fails
	// the whole submission via rollback.
	if p.Kind == model.KindRequisition {
		for _, itemID := range itemOrder {
			if err := DebitStock(ctx, tx, itemID, itemTotals[itemID]); err != nil {
				return nil, err
			}
		}
	}

	groupID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_requests (id, user_id, kind, status, delivery_method, address,
		                             reason_id, custom_reason, due_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		groupID, userID, p.Kind, model.StatusPending, p.DeliveryMethod, p.Address,
		p.ReasonID, p.CustomReason, p.DueDate,
	)
	if err != nil {
		return nil, fmt.Errorf("creating group request: %w", err)
	}

	for _, itemID := range itemOrder {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO request_logs (group_id, item_id, requested_quantity) VALUES (?, ?, ?)`,
			groupID, itemID, itemTotals[itemID],
		)
		if err != nil {
			return nil, fmt.Errorf("creating request log: %w", err)
		}
	}

	// The cart is consumed by submission.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM cart_lines WHERE user_id = ? AND kind = ?`,
		userID, p.Kind,
	)
	if err != nil {
		return nil, fmt.Errorf("clearing cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing submission: %w", err)
	}

	return GetGroup(ctx, db, groupID)
}

// ApproveGroup moves a pending group to approved with the administrator's
// per-line approved quantities. Approving zero on every line is rejected:
// that is what RejectGroup is for. Requisition groups credit back the gap
// between requested and approved per line; borrow groups debit the approved
// quantities now. Any debit failure rolls the whole approval back and the
// group stays pending.
func ApproveGroup(ctx context.Context, db *sql.DB, groupID string, decisions []LineQuantity) (*model.GroupRequest, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	kind, status, err := groupState(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(kind, status, model.StatusApproved) {
		return nil, fmt.Errorf("group %s is %s: %w", groupID, status, model.ErrInvalidTransition)
	}

	logs, err := loadLogs(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	decided := make(map[int64]int, len(decisions))
	for _, d := range decisions {
		decided[d.LogID] = d.Quantity
	}

	anyPositive := false
	for _, log := range logs {
		quantity, ok := decided[log.ID]
		if !ok {
			return nil, fmt.Errorf("log %d: %w", log.ID, model.ErrMissingLineDecision)
		}
		if quantity < 0 {
			return nil, fmt.Errorf("log %d: %w", log.ID, model.ErrInvalidQuantity)
		}
		if quantity > log.RequestedQuantity {
			return nil, fmt.Errorf("log %d: approved %d of %d: %w",
				log.ID, quantity, log.RequestedQuantity, model.ErrApprovedExceedsRequested)
		}
		if quantity > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		return nil, model.ErrNothingApproved
	}

	for _, log := range logs {
		quantity := decided[log.ID]

		switch kind {
		case model.KindRequisition:
			// Return the unused portion of the submission-time reservation.
			if diff := log.RequestedQuantity - quantity; diff > 0 {
				if err := CreditStock(ctx, tx, log.ItemID, diff); err != nil {
					return nil, err
				}
			}
		case model.KindBorrow:
			// Deferred debit: stock may have been consumed by other
			// approvals since submission.
			if quantity > 0 {
				if err := DebitStock(ctx, tx, log.ItemID, quantity); err != nil {
					return nil, err
				}
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE request_logs SET approved_quantity = ? WHERE id = ?`,
			quantity, log.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("updating request log: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE group_requests SET status = ?, decided_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.StatusApproved, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating group status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing approval: %w", err)
	}

	return GetGroup(ctx, db, groupID)
}

// RejectGroup moves a pending group to not approved. Requisition groups get
// their full submission-time reservation credited back; borrow groups never
// debited anything, so there is no ledger effect.
func RejectGroup(ctx context.Context, db *sql.DB, groupID string) (*model.GroupRequest, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	kind, status, err := groupState(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(kind, status, model.StatusNotApproved) {
		return nil, fmt.Errorf("group %s is %s: %w", groupID, status, model.ErrInvalidTransition)
	}

	if kind == model.KindRequisition {
		logs, err := loadLogs(ctx, tx, groupID)
		if err != nil {
			return nil, err
		}
		for _, log := range logs {
			if err := CreditStock(ctx, tx, log.ItemID, log.RequestedQuantity); err != nil {
				return nil, err
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE group_requests SET status = ?, decided_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.StatusNotApproved, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating group status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing rejection: %w", err)
	}

	return GetGroup(ctx, db, groupID)
}

// RecordReturn records the actual returned quantity per line of an approved
// borrow group and closes the loan. Returned stock is credited back into
// circulation; anything not returned stays debited as a loss. A line may be
// returned as zero (lost), which the logs surface for audit.
func RecordReturn(ctx context.Context, db *sql.DB, groupID string, returnDate time.Time, returns []LineQuantity) (*model.GroupRequest, error) {
	if startOfDay(returnDate).After(startOfDay(time.Now())) {
		return nil, model.ErrReturnDateInFuture
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	kind, status, err := groupState(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(kind, status, model.StatusApprovedReturned) {
		return nil, fmt.Errorf("group %s (%s, %s): %w", groupID, kind, status, model.ErrInvalidTransition)
	}

	logs, err := loadLogs(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	returned := make(map[int64]int, len(returns))
	for _, r := range returns {
		returned[r.LogID] = r.Quantity
	}

	for _, log := range logs {
		quantity, ok := returned[log.ID]
		if !ok {
			return nil, fmt.Errorf("log %d: %w", log.ID, model.ErrMissingLineReturn)
		}
		if quantity < 0 {
			return nil, fmt.Errorf("log %d: %w", log.ID, model.ErrInvalidQuantity)
		}
		approved := 0
		if log.ApprovedQuantity != nil {
			approved = *log.ApprovedQuantity
		}
		if quantity > approved {
			return nil, fmt.Errorf("log %d: returned %d of %d: %w",
				log.ID, quantity, approved, model.ErrReturnedExceedsApproved)
		}

		if quantity > 0 {
			if err := CreditStock(ctx, tx, log.ItemID, quantity); err != nil {
				return nil, err
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE request_logs SET returned_quantity = ? WHERE id = ?`,
			quantity, log.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("updating request log: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE group_requests SET status = ?, actual_return_date = ? WHERE id = ?`,
		model.StatusApprovedReturned, returnDate, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating group status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing return: %w", err)
	}

	return GetGroup(ctx, db, groupID)
}

// GetGroup returns a group request with its request logs.
func GetGroup(ctx context.Context, db *sql.DB, id string) (*model.GroupRequest, error) {
	g := &model.GroupRequest{}
	var address, customReason sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT g.id, g.user_id, g.kind, g.status, g.delivery_method, g.address,
		        g.reason_id, g.custom_reason, g.due_date, g.actual_return_date,
		        g.created_at, g.decided_at, u.username
		 FROM group_requests g
		 JOIN users u ON u.id = g.user_id
		 WHERE g.id = ?`, id,
	).Scan(&g.ID, &g.UserID, &g.Kind, &g.Status, &g.DeliveryMethod, &address,
		&g.ReasonID, &customReason, &g.DueDate, &g.ActualReturnDate,
		&g.CreatedAt, &g.DecidedAt, &g.Username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting group request: %w", err)
	}
	g.Address = address.String
	g.CustomReason = customReason.String

	logs, err := loadLogs(ctx, db, id)
	if err != nil {
		return nil, err
	}
	g.Logs = logs
	return g, nil
}

// ListGroupsOptions filters and paginates ListGroups. Zero values mean no
// filter; page and page size are normalized to sane defaults.
type ListGroupsOptions struct {
	UserID   int64
	Kind     string
	Status   string
	Page     int
	PageSize int
}

// DefaultPageSize and MaxPageSize bound group listing pages.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListGroups returns one page of group requests, newest first, with their
// request logs attached.
func ListGroups(ctx context.Context, db *sql.DB, opts ListGroupsOptions) (*model.GroupPage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 || opts.PageSize > MaxPageSize {
		opts.PageSize = DefaultPageSize
	}

	where := ` WHERE 1=1`
	var args []any

	if opts.UserID > 0 {
		where += ` AND g.user_id = ?`
		args = append(args, opts.UserID)
	}
	if opts.Kind != "" {
		where += ` AND g.kind = ?`
		args = append(args, opts.Kind)
	}
	if opts.Status != "" {
		where += ` AND g.status = ?`
		args = append(args, opts.Status)
	}

	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM group_requests g`+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("counting group requests: %w", err)
	}

	query := `SELECT g.id, g.user_id, g.kind, g.status, g.delivery_method, g.address,
	                 g.reason_id, g.custom_reason, g.due_date, g.actual_return_date,
	                 g.created_at, g.decided_at, u.username
	          FROM group_requests g
	          JOIN users u ON u.id = g.user_id` + where +
		` ORDER BY g.created_at DESC, g.id LIMIT ? OFFSET ?`
	args = append(args, opts.PageSize, (opts.Page-1)*opts.PageSize)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing group requests: %w", err)
	}
	defer rows.Close()

	var groups []model.GroupRequest
	for rows.Next() {
		var g model.GroupRequest
		var address, customReason sql.NullString
		if err := rows.Scan(&g.ID, &g.UserID, &g.Kind, &g.Status, &g.DeliveryMethod, &address,
			&g.ReasonID, &customReason, &g.DueDate, &g.ActualReturnDate,
			&g.CreatedAt, &g.DecidedAt, &g.Username); err != nil {
			return nil, fmt.Errorf("scanning group request: %w", err)
		}
		g.Address = address.String
		g.CustomReason = customReason.String
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing group requests: %w", err)
	}

	for i := range groups {
		logs, err := loadLogs(ctx, db, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Logs = logs
	}

	totalPages := (total + opts.PageSize - 1) / opts.PageSize
	return &model.GroupPage{
		Items:      groups,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// groupState reads a group's kind and status, mapping a missing row to
// ErrNotFound.
func groupState(ctx context.Context, q dbtx, groupID string) (kind, status string, err error) {
	err = q.QueryRowContext(ctx,
		`SELECT kind, status FROM group_requests WHERE id = ?`, groupID,
	).Scan(&kind, &status)
	if err == sql.ErrNoRows {
		return "", "", fmt.Errorf("group %s: %w", groupID, model.ErrNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("getting group state: %w", err)
	}
	return kind, status, nil
}

// loadLogs returns a group's request logs with item name and unit joined.
func loadLogs(ctx context.Context, q dbtx, groupID string) ([]model.RequestLog, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT l.id, l.group_id, l.item_id, l.requested_quantity,
		        l.approved_quantity, l.returned_quantity,
		        i.name AS item_name, i.unit AS item_unit
		 FROM request_logs l
		 JOIN items i ON i.id = l.item_id
		 WHERE l.group_id = ?
		 ORDER BY l.id`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading request logs: %w", err)
	}
	defer rows.Close()

	var logs []model.RequestLog
	for rows.Next() {
		var log model.RequestLog
		var unit sql.NullString
		if err := rows.Scan(&log.ID, &log.GroupID, &log.ItemID, &log.RequestedQuantity,
			&log.ApprovedQuantity, &log.ReturnedQuantity, &log.ItemName, &unit); err != nil {
			return nil, fmt.Errorf("scanning request log: %w", err)
		}
		log.ItemUnit = unit.String
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// startOfDay returns midnight of t's day in t's location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
