package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/nabava/internal/model"
	"github.com/erazemk/nabava/internal/store"
)

// ReasonsHandler serves the usage reason lookup table.
type ReasonsHandler struct {
	DB *sql.DB
}

// List handles GET /api/reasons.
func (h *ReasonsHandler) List(w http.ResponseWriter, r *http.Request) {
	reasons, err := store.ListReasons(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}
	if reasons == nil {
		reasons = []model.Reason{}
	}
	jsonResponse(w, http.StatusOK, reasons)
}
