package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"retail-backoffice/internal/core"
)

// listProducts handles GET /api/products.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, products)
}

// createProduct handles POST /api/products.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p core.Product
	if !decodeJSON(w, r, &p) {
		return
	}
	created, err := h.svc.CreateProduct(r.Context(), &p)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, created)
}

// updateProduct handles PUT /api/products/{id}.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p core.Product
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := h.svc.UpdateProduct(r.Context(), id, &p); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setProductStock handles PATCH /api/products/{id}/stock.
func (h *Handler) setProductStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Remaining int `json:"remaining"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.SetProductStock(r.Context(), id, req.Remaining); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteProduct handles DELETE /api/products/{id}.
func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listCategories handles GET /api/categories.
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.ListCategories(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, names)
}

// addCategory handles POST /api/categories.
func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.AddCategory(r.Context(), req.Name); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteCategory handles DELETE /api/categories/{name}.
func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), chi.URLParam(r, "name")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
