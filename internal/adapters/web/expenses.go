package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"retail-backoffice/internal/core"
)

// listExpenses handles GET /api/expenses?filter=&from=&to=.
func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.ListExpenses(r.Context(), q.Get("filter"), q.Get("from"), q.Get("to"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// createExpense handles POST /api/expenses.
func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if !decodeJSON(w, r, &e) {
		return
	}
	created, err := h.svc.CreateExpense(r.Context(), &e)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, created)
}

// updateExpense handles PUT /api/expenses/{id}.
func (h *Handler) updateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var e core.Expense
	if !decodeJSON(w, r, &e) {
		return
	}
	if err := h.svc.UpdateExpense(r.Context(), id, &e); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteExpense handles DELETE /api/expenses/{id}.
func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteExpense(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listExpenseCategories handles GET /api/expense-categories.
func (h *Handler) listExpenseCategories(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.ListExpenseCategories(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, names)
}

// addExpenseCategory handles POST /api/expense-categories.
func (h *Handler) addExpenseCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.AddExpenseCategory(r.Context(), req.Name); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteExpenseCategory handles DELETE /api/expense-categories/{name}.
func (h *Handler) deleteExpenseCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteExpenseCategory(r.Context(), chi.URLParam(r, "name")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
