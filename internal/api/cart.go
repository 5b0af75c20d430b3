package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/erazemk/nabava/internal/model"
	"github.com/erazemk/nabava/internal/store"
)

// CartHandler handles the user's pre-submission carts.
type CartHandler struct {
	DB *sql.DB
}

type addCartLineRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// List handles GET /api/cart. The kind query parameter selects one of the
// user's two carts; without it both are returned.
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	kind := r.URL.Query().Get("kind")
	if kind != "" && !model.ValidKind(kind) {
		jsonError(w, http.StatusBadRequest, "invalid kind")
		return
	}

	lines, err := store.ListCartLines(r.Context(), h.DB, claims.UserID, kind)
	if err != nil {
		storeError(w, err)
		return
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	jsonResponse(w, http.StatusOK, lines)
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req addCartLineRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID <= 0 {
		jsonError(w, http.StatusBadRequest, "item_id required")
		return
	}

	line, err := store.AddCartLine(r.Context(), h.DB, claims.UserID, req.ItemID, req.Quantity)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, line)
}

// Remove handles DELETE /api/cart/{id}. Deleting an already-removed line
// succeeds, so the UI can retry freely.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid cart line id")
		return
	}

	if err := store.RemoveCartLine(r.Context(), h.DB, claims.UserID, id); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "cart line removed"})
}
