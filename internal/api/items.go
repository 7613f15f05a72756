package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/findithq/findit/internal/filter"
	"github.com/findithq/findit/internal/model"
	"github.com/findithq/findit/internal/store"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// createItemRequest deliberately has no status field: new reports are always
// open, whatever the client sends.
type createItemRequest struct {
	Kind         string `json:"kind"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	DateReported string `json:"date_reported"` // YYYY-MM-DD
	CategoryID   string `json:"category_id"`
	ImageURL     string `json:"image_url"`
	ContactInfo  string `json:"contact_info"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// List handles GET /api/items. Query parameters term, kind, category, and
// status are applied by the filter engine over the full collection, so the
// API and the search page share the exact same matching semantics.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	q := r.URL.Query()
	spec := filter.Spec{
		Term:       q.Get("term"),
		Kind:       filter.ParseKind(q.Get("kind")),
		CategoryID: q.Get("category"),
		Status:     filter.ParseStatus(q.Get("status")),
	}
	items = filter.Apply(items, spec)

	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := model.NewItemInput{
		Kind:        req.Kind,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		ContactInfo: req.ContactInfo,
	}
	if req.DateReported != "" {
		date, err := time.Parse("2006-01-02", req.DateReported)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "date_reported must be YYYY-MM-DD")
			return
		}
		in.DateReported = date
	}
	if err := in.Validate(time.Now()); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, claims.ProfileID, in)
	if err != nil {
		slog.Error("failed to create item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	slog.Info("item reported", "email", claims.Email, "kind", item.Kind, "title", item.Title)
	jsonResponse(w, http.StatusCreated, item)
}

// UpdateStatus handles PUT /api/items/{id}/status. Owners may only move their
// own item forward along open → matched → closed; admins may set any status.
func (h *ItemsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	// Fail closed: a missing or unreadable profile is treated as non-admin.
	admin := false
	if profile, err := store.GetProfile(r.Context(), h.DB, claims.ProfileID); err == nil && profile != nil {
		admin = profile.IsAdmin
	}

	if !admin && item.ProfileID != claims.ProfileID {
		jsonError(w, http.StatusForbidden, "not your item")
		return
	}
	if !model.CanTransition(item.Status, req.Status, admin) {
		jsonError(w, http.StatusForbidden, "status can only move forward")
		return
	}

	if err := store.UpdateItemStatus(r.Context(), h.DB, item.ID, req.Status); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update status")
		return
	}

	slog.Info("item status updated", "email", claims.Email, "item", item.Title, "status", req.Status)
	item, _ = store.GetItem(r.Context(), h.DB, item.ID)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id} (admin only, routed behind RequireAdmin).
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("item deleted", "email", claims.Email, "item", item.Title)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
