package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
)

// backupSales handles GET /api/backup/sales?format=csv|xlsx&filter=&from=&to=.
// The export is built into a buffer first so a failure can still produce a
// proper error response instead of a truncated download.
func (h *Handler) backupSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "csv"
	}

	var buf bytes.Buffer
	if err := h.svc.WriteBackup(r.Context(), &buf, format, q.Get("filter"), q.Get("from"), q.Get("to")); err != nil {
		handleError(w, r, err)
		return
	}

	contentType := "text/csv"
	ext := "csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		ext = "xlsx"
	}
	filename := fmt.Sprintf("sales-backup-%s.%s", time.Now().Format("2006-01-02"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = buf.WriteTo(w)
}

// backupStats handles GET /api/backup/stats.
func (h *Handler) backupStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.BackupStats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, stats)
}
