package web

import (
	"log/slog"
	"net/http"

	"github.com/findithq/findit/internal/model"
	"github.com/findithq/findit/internal/store"
)

// Home handles GET /. Public: shows recent open reports and totals.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	recent, err := store.ListRecentOpenItems(r.Context(), s.DB, 6)
	if err != nil {
		slog.Error("failed to list recent items", "error", err)
	}

	lost, found, err := store.CountItemsByKind(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to count items", "error", err)
	}

	s.Templates.Render(w, "home.html", &struct {
		PageData
		Recent     []model.Item
		LostCount  int
		FoundCount int
	}{
		PageData:   PageData{Title: "FindIt", Page: "home", Profile: CurrentProfile(r.Context())},
		Recent:     recent,
		LostCount:  lost,
		FoundCount: found,
	})
}
