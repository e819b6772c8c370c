package web

import (
	"net/http"
	"strconv"

	"retail-backoffice/internal/app"
)

// listSales handles GET /api/sales. Supported query parameters: customer,
// salesmanId, filter (today/last7days/monthly/yearly/custom/...), from, to.
func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.ListSalesRequest{
		CustomerName: q.Get("customer"),
		Filter:       q.Get("filter"),
		From:         q.Get("from"),
		To:           q.Get("to"),
	}
	if raw := q.Get("salesmanId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, "invalid salesmanId", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.SalesmanID = &id
	}

	result, err := h.svc.ListSales(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// recordSale handles POST /api/sales.
func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	var req app.SaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.RecordSale(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// getSale handles GET /api/sales/{id}.
func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetSale(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// editSale handles PUT /api/sales/{id}.
func (h *Handler) editSale(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.SaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.EditSale(r.Context(), id, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// deleteSale handles DELETE /api/sales/{id}. The deleted record is returned
// so the client can offer an undo by re-posting it.
func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.DeleteSale(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// latestInvoiceNumber handles GET /api/sales/latest.
func (h *Handler) latestInvoiceNumber(w http.ResponseWriter, r *http.Request) {
	latest, err := h.svc.LatestInvoiceNumber(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	type response struct {
		LatestInvoiceNumber int `json:"latestInvoiceNumber"`
	}
	writeJSON(w, response{LatestInvoiceNumber: latest})
}

// adjustBalance handles POST /api/sales/adjust.
func (h *Handler) adjustBalance(w http.ResponseWriter, r *http.Request) {
	var req app.AdjustBalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.AdjustBalance(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// registerAtBalance handles POST /api/sales/register.
func (h *Handler) registerAtBalance(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterAtBalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	customer, err := h.svc.RegisterCustomerAtBalance(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, customer)
}

// linkSalesman handles POST /api/sales/link.
func (h *Handler) linkSalesman(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvoiceNumber int `json:"invoiceNumber"`
		SalesmanID    int `json:"salesmanId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.LinkSalesman(r.Context(), req.InvoiceNumber, req.SalesmanID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
