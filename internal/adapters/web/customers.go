package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"retail-backoffice/internal/core"
)

// resolveBalance handles GET /api/balance?name=&phone=.
func (h *Handler) resolveBalance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rb, err := h.svc.ResolveBalance(r.Context(), q.Get("name"), q.Get("phone"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, rb)
}

// recovery handles GET /api/recovery — the dues view.
func (h *Handler) recovery(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListDebtors(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// listCustomers handles GET /api/customers. ?view=normal switches to the
// journal-only (unregistered) customer listing.
func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	normal := r.URL.Query().Get("view") == "normal"
	customers, err := h.svc.ListCustomers(r.Context(), normal)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, customers)
}

// createCustomer handles POST /api/customers.
func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var c core.Customer
	if !decodeJSON(w, r, &c) {
		return
	}
	created, err := h.svc.CreateCustomer(r.Context(), &c)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, created)
}

// updateCustomer handles PUT /api/customers/{id}.
func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var c core.Customer
	if !decodeJSON(w, r, &c) {
		return
	}
	if err := h.svc.UpdateCustomer(r.Context(), id, &c); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// updateOpeningBalance handles PATCH /api/customers/{id}/opening-balance.
func (h *Handler) updateOpeningBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		OpeningBalance decimal.Decimal `json:"openingBalance"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.UpdateOpeningBalance(r.Context(), id, req.OpeningBalance); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteCustomer handles DELETE /api/customers/{id}.
func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
