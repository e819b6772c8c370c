package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"retail-backoffice/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (401 JSON if unauthenticated) ───────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(DefaultBodyLimit))

		r.Get("/api/auth/me", h.me)

		// Sales journal
		r.Get("/api/sales", h.listSales)
		r.Post("/api/sales", h.recordSale)
		r.Get("/api/sales/latest", h.latestInvoiceNumber)
		r.Post("/api/sales/adjust", h.adjustBalance)
		r.Post("/api/sales/register", h.registerAtBalance)
		r.Post("/api/sales/link", h.linkSalesman)
		r.Get("/api/sales/{id}", h.getSale)
		r.Put("/api/sales/{id}", h.editSale)
		r.Delete("/api/sales/{id}", h.deleteSale)

		// Balances and recovery
		r.Get("/api/balance", h.resolveBalance)
		r.Get("/api/recovery", h.recovery)

		// Customers
		r.Get("/api/customers", h.listCustomers)
		r.Post("/api/customers", h.createCustomer)
		r.Put("/api/customers/{id}", h.updateCustomer)
		r.Patch("/api/customers/{id}/opening-balance", h.updateOpeningBalance)
		r.Delete("/api/customers/{id}", h.deleteCustomer)

		// Products and categories
		r.Get("/api/products", h.listProducts)
		r.Post("/api/products", h.createProduct)
		r.Put("/api/products/{id}", h.updateProduct)
		r.Patch("/api/products/{id}/stock", h.setProductStock)
		r.Delete("/api/products/{id}", h.deleteProduct)
		r.Get("/api/categories", h.listCategories)
		r.Post("/api/categories", h.addCategory)
		r.Delete("/api/categories/{name}", h.deleteCategory)

		// Purchasing
		r.Get("/api/purchases", h.listPurchases)
		r.Post("/api/purchases", h.createPurchase)
		r.Delete("/api/purchases/{id}", h.deletePurchase)
		r.Get("/api/vendors", h.listVendors)
		r.Post("/api/vendors", h.createVendor)
		r.Put("/api/vendors/{id}", h.updateVendor)
		r.Delete("/api/vendors/{id}", h.deleteVendor)

		// Expenses
		r.Get("/api/expenses", h.listExpenses)
		r.Post("/api/expenses", h.createExpense)
		r.Put("/api/expenses/{id}", h.updateExpense)
		r.Delete("/api/expenses/{id}", h.deleteExpense)
		r.Get("/api/expense-categories", h.listExpenseCategories)
		r.Post("/api/expense-categories", h.addExpenseCategory)
		r.Delete("/api/expense-categories/{name}", h.deleteExpenseCategory)

		// Salesmen
		r.Get("/api/salesmen", h.listSalesmen)
		r.Post("/api/salesmen", h.createSalesman)
		r.Put("/api/salesmen/{id}", h.updateSalesman)
		r.Delete("/api/salesmen/{id}", h.deleteSalesman)

		// Analytics and backup
		r.Get("/api/analytics", h.analytics)
		r.Get("/api/backup/sales", h.backupSales)
		r.Get("/api/backup/stats", h.backupStats)

		// Profile
		r.Get("/api/profile", h.getProfile)
		r.Put("/api/profile", h.updateProfile)
		r.Post("/api/profile/password", h.changePassword)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam extracts the numeric {id} URL parameter. Returns false and writes a
// 400 response when it is not a number.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
