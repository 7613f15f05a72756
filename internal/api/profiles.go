package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/findithq/findit/internal/model"
	"github.com/findithq/findit/internal/store"
)

// ProfilesHandler handles profile moderation endpoints (admin only).
type ProfilesHandler struct {
	DB *sql.DB
}

type setAdminRequest struct {
	Admin bool `json:"admin"`
}

// List handles GET /api/profiles.
func (h *ProfilesHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := store.ListProfiles(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list profiles", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list profiles")
		return
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	jsonResponse(w, http.StatusOK, profiles)
}

// SetAdmin handles PUT /api/profiles/{id}/admin.
func (h *ProfilesHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req setAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// An admin cannot strip their own flag; another admin has to do it.
	claims := GetClaims(r.Context())
	if claims != nil && claims.ProfileID == id && !req.Admin {
		jsonError(w, http.StatusBadRequest, "cannot remove your own admin access")
		return
	}

	target, err := store.GetProfile(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}
	if target == nil {
		jsonError(w, http.StatusNotFound, "profile not found")
		return
	}

	if err := store.SetProfileAdmin(r.Context(), h.DB, id, req.Admin); err != nil {
		slog.Error("failed to set admin flag", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	slog.Info("admin flag updated", "email", claims.Email, "target", target.Email, "admin", req.Admin)
	target, _ = store.GetProfile(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, target)
}
