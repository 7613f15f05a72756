package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/findithq/findit/internal/model"
	"github.com/findithq/findit/internal/store"
)

// CategoriesHandler handles category endpoints. Writes are admin only.
type CategoriesHandler struct {
	DB *sql.DB
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Create handles POST /api/categories. The name is trimmed; a name that is
// empty after trimming is rejected before anything reaches the database.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		jsonError(w, http.StatusBadRequest, "category name required")
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, name, strings.TrimSpace(req.Description))
	if err != nil {
		jsonError(w, http.StatusConflict, "category already exists")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("category created", "email", claims.Email, "category", name)
	jsonResponse(w, http.StatusCreated, category)
}

// Delete handles DELETE /api/categories/{id}. Referencing items keep their
// rows; the category reference is cleared by the schema.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	category, err := store.GetCategory(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get category")
		return
	}
	if category == nil {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}

	if err := store.DeleteCategory(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete category", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("category deleted", "email", claims.Email, "category", category.Name)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
