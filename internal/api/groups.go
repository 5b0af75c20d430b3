package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/nabava/internal/model"
	"github.com/erazemk/nabava/internal/store"
)

// GroupsHandler handles group request endpoints: submission, review, and
// return reconciliation.
type GroupsHandler struct {
	DB *sql.DB
}

// dateFormat is the wire format for due and return dates.
const dateFormat = "2006-01-02"

type submitGroupRequest struct {
	Kind           string `json:"kind"`
	DeliveryMethod string `json:"delivery_method"`
	Address        string `json:"address"`
	ReasonID       int64  `json:"reason_id"`
	CustomReason   string `json:"custom_reason"`
	DueDate        string `json:"due_date"`
}

type decideGroupRequest struct {
	Lines []store.LineQuantity `json:"lines"`
}

type recordReturnRequest struct {
	ReturnDate string               `json:"return_date"`
	Lines      []store.LineQuantity `json:"lines"`
}

// Submit handles POST /api/groups: the user's cart of the given kind
// becomes one pending group request.
func (h *GroupsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req submitGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !model.ValidKind(req.Kind) {
		jsonError(w, http.StatusBadRequest, "kind must be requisition or borrow")
		return
	}
	if req.DeliveryMethod != model.DeliverySelfPickup && req.DeliveryMethod != model.DeliveryDelivery {
		jsonError(w, http.StatusBadRequest, "delivery_method must be pickup or delivery")
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.ParseInLocation(dateFormat, req.DueDate, time.Local)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
			return
		}
		dueDate = &parsed
	}

	group, err := store.SubmitGroup(r.Context(), h.DB, claims.UserID, store.SubmitGroupParams{
		Kind:           req.Kind,
		DeliveryMethod: req.DeliveryMethod,
		Address:        req.Address,
		ReasonID:       req.ReasonID,
		CustomReason:   req.CustomReason,
		DueDate:        dueDate,
	})
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("group submitted", "user", claims.Username, "group", group.ID,
		"kind", group.Kind, "lines", len(group.Logs))
	jsonResponse(w, http.StatusCreated, group)
}

// List handles GET /api/groups. Administrators see every group (optionally
// narrowed to one user); other users only their own.
func (h *GroupsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	opts := store.ListGroupsOptions{
		Kind:   r.URL.Query().Get("kind"),
		Status: r.URL.Query().Get("status"),
	}

	if claims.Role == model.RoleAdmin {
		if v := r.URL.Query().Get("user_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				jsonError(w, http.StatusBadRequest, "invalid user_id")
				return
			}
			opts.UserID = id
		}
	} else {
		opts.UserID = claims.UserID
	}

	if v := r.URL.Query().Get("page"); v != "" {
		opts.Page, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		opts.PageSize, _ = strconv.Atoi(v)
	}

	page, err := store.ListGroups(r.Context(), h.DB, opts)
	if err != nil {
		storeError(w, err)
		return
	}
	if page.Items == nil {
		page.Items = []model.GroupRequest{}
	}
	jsonResponse(w, http.StatusOK, page)
}

// Get handles GET /api/groups/{id}. Only the submitting user and
// administrators may view a group.
func (h *GroupsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	group, err := store.GetGroup(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	if group == nil {
		jsonError(w, http.StatusNotFound, "group not found")
		return
	}
	if claims.Role != model.RoleAdmin && group.UserID != claims.UserID {
		jsonError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	jsonResponse(w, http.StatusOK, group)
}

// Approve handles PUT /api/groups/{id}/approve.
func (h *GroupsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req decideGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := store.ApproveGroup(r.Context(), h.DB, r.PathValue("id"), req.Lines)
	if err != nil {
		storeError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("group approved", "user", claims.Username, "group", group.ID, "kind", group.Kind)
	jsonResponse(w, http.StatusOK, group)
}

// Reject handles PUT /api/groups/{id}/reject.
func (h *GroupsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	group, err := store.RejectGroup(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("group rejected", "user", claims.Username, "group", group.ID, "kind", group.Kind)
	jsonResponse(w, http.StatusOK, group)
}

// Return handles POST /api/groups/{id}/return.
func (h *GroupsHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req recordReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ReturnDate == "" {
		jsonError(w, http.StatusBadRequest, "return_date required")
		return
	}
	returnDate, err := time.ParseInLocation(dateFormat, req.ReturnDate, time.Local)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "return_date must be YYYY-MM-DD")
		return
	}

	group, err := store.RecordReturn(r.Context(), h.DB, r.PathValue("id"), returnDate, req.Lines)
	if err != nil {
		storeError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("group return recorded", "user", claims.Username, "group", group.ID)
	jsonResponse(w, http.StatusOK, group)
}
