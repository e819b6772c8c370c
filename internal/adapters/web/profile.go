package web

import (
	"net/http"

	"retail-backoffice/internal/core"
)

// getProfile handles GET /api/profile.
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetProfile(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, user)
}

// updateProfile handles PUT /api/profile.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var u core.User
	if !decodeJSON(w, r, &u) {
		return
	}
	updated, err := h.svc.UpdateProfile(r.Context(), &u)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

// changePassword handles POST /api/profile/password.
func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
