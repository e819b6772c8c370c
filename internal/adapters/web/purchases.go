package web

import (
	"net/http"

	"retail-backoffice/internal/core"
)

// listPurchases handles GET /api/purchases?filter=&from=&to=.
func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	purchases, err := h.svc.ListPurchases(r.Context(), q.Get("filter"), q.Get("from"), q.Get("to"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, purchases)
}

// createPurchase handles POST /api/purchases.
func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var p core.Purchase
	if !decodeJSON(w, r, &p) {
		return
	}
	created, err := h.svc.CreatePurchase(r.Context(), &p)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, created)
}

// deletePurchase handles DELETE /api/purchases/{id}.
func (h *Handler) deletePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeletePurchase(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listVendors handles GET /api/vendors.
func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.svc.ListVendors(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, vendors)
}

// createVendor handles POST /api/vendors.
func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var v core.Vendor
	if !decodeJSON(w, r, &v) {
		return
	}
	created, err := h.svc.CreateVendor(r.Context(), &v)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, created)
}

// updateVendor handles PUT /api/vendors/{id}.
func (h *Handler) updateVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var v core.Vendor
	if !decodeJSON(w, r, &v) {
		return
	}
	if err := h.svc.UpdateVendor(r.Context(), id, &v); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteVendor handles DELETE /api/vendors/{id}.
func (h *Handler) deleteVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteVendor(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
