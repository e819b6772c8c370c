package web

import (
	"net/http"

	"retail-backoffice/internal/core"
)

// listSalesmen handles GET /api/salesmen.
func (h *Handler) listSalesmen(w http.ResponseWriter, r *http.Request) {
	salesmen, err := h.svc.ListSalesmen(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, salesmen)
}

// createSalesman handles POST /api/salesmen.
func (h *Handler) createSalesman(w http.ResponseWriter, r *http.Request) {
	var m core.Salesman
	if !decodeJSON(w, r, &m) {
		return
	}
	created, err := h.svc.CreateSalesman(r.Context(), &m)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, created)
}

// updateSalesman handles PUT /api/salesmen/{id}.
func (h *Handler) updateSalesman(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var m core.Salesman
	if !decodeJSON(w, r, &m) {
		return
	}
	if err := h.svc.UpdateSalesman(r.Context(), id, &m); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteSalesman handles DELETE /api/salesmen/{id}.
func (h *Handler) deleteSalesman(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteSalesman(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
