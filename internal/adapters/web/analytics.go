package web

import "net/http"

// analytics handles GET /api/analytics?filter=&from=&to=.
func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.svc.GetAnalytics(r.Context(), q.Get("filter"), q.Get("from"), q.Get("to"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, report)
}
