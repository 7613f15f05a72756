package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/findithq/findit/internal/model"
	"github.com/findithq/findit/internal/store"
)

// adminData feeds the dashboard with all three collections; the active tab is
// plain render state.
type adminData struct {
	PageData
	Tab        string
	Items      []model.Item
	Profiles   []model.Profile
	Categories []model.Category
}

// AdminPage handles GET /admin. Every render re-fetches all collections so
// the page always reflects authoritative state after a moderation action.
func (s *Server) AdminPage(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}
	profiles, err := store.ListProfiles(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list profiles", "error", err)
	}
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
	}

	tab := r.URL.Query().Get("tab")
	if tab != "users" && tab != "categories" {
		tab = "items"
	}

	s.Templates.Render(w, "admin.html", &adminData{
		PageData: PageData{
			Title:   "Admin Dashboard",
			Page:    "admin",
			Profile: CurrentProfile(r.Context()),
			Error:   r.URL.Query().Get("error"),
		},
		Tab:        tab,
		Items:      items,
		Profiles:   profiles,
		Categories: categories,
	})
}

// AdminItemStatus handles POST /admin/items/{id}/status. Admin override: any
// valid status is allowed.
func (s *Server) AdminItemStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	status := r.FormValue("status")

	if !model.ValidStatus(status) {
		redirectAdmin(w, r, "items", "Invalid status.")
		return
	}

	if err := store.UpdateItemStatus(r.Context(), s.DB, id, status); err != nil {
		slog.Error("failed to update item status", "error", err)
		redirectAdmin(w, r, "items", "Failed to update item status.")
		return
	}

	profile := CurrentProfile(r.Context())
	slog.Info("item status overridden", "email", profile.Email, "item", id, "status", status)
	redirectAdmin(w, r, "items", "")
}

// AdminItemDelete handles POST /admin/items/{id}/delete.
func (s *Server) AdminItemDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := store.DeleteItem(r.Context(), s.DB, id); err != nil {
		slog.Error("failed to delete item", "error", err)
		redirectAdmin(w, r, "items", "Failed to delete item.")
		return
	}

	profile := CurrentProfile(r.Context())
	slog.Info("item deleted", "email", profile.Email, "item", id)
	redirectAdmin(w, r, "items", "")
}

// AdminToggleAdmin handles POST /admin/profiles/{id}/admin.
func (s *Server) AdminToggleAdmin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	profile := CurrentProfile(r.Context())

	if profile.ID == id {
		redirectAdmin(w, r, "users", "You cannot change your own admin access.")
		return
	}

	target, err := store.GetProfile(r.Context(), s.DB, id)
	if err != nil || target == nil {
		redirectAdmin(w, r, "users", "Profile not found.")
		return
	}

	if err := store.SetProfileAdmin(r.Context(), s.DB, id, !target.IsAdmin); err != nil {
		slog.Error("failed to toggle admin flag", "error", err)
		redirectAdmin(w, r, "users", "Failed to update profile.")
		return
	}

	slog.Info("admin flag toggled", "email", profile.Email, "target", target.Email, "admin", !target.IsAdmin)
	redirectAdmin(w, r, "users", "")
}

// AdminCategoryCreate handles POST /admin/categories. A whitespace-only name
// is rejected before anything is inserted.
func (s *Server) AdminCategoryCreate(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))

	if name == "" {
		redirectAdmin(w, r, "categories", "Category name is required.")
		return
	}

	if _, err := store.CreateCategory(r.Context(), s.DB, name, description); err != nil {
		slog.Error("failed to create category", "error", err)
		redirectAdmin(w, r, "categories", "A category with this name already exists.")
		return
	}

	profile := CurrentProfile(r.Context())
	slog.Info("category created", "email", profile.Email, "category", name)
	redirectAdmin(w, r, "categories", "")
}

// AdminCategoryDelete handles POST /admin/categories/{id}/delete.
func (s *Server) AdminCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := store.DeleteCategory(r.Context(), s.DB, id); err != nil {
		slog.Error("failed to delete category", "error", err)
		redirectAdmin(w, r, "categories", "Failed to delete category.")
		return
	}

	profile := CurrentProfile(r.Context())
	slog.Info("category deleted", "email", profile.Email, "category", id)
	redirectAdmin(w, r, "categories", "")
}

// redirectAdmin sends the browser back to a dashboard tab, optionally with an
// error message. Post-redirect-get keeps refreshes safe and forces the
// re-fetch that makes moderation results authoritative.
func redirectAdmin(w http.ResponseWriter, r *http.Request, tab, errMsg string) {
	target := "/admin?tab=" + tab
	if errMsg != "" {
		target += "&error=" + url.QueryEscape(errMsg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
