package web

import (
	"log/slog"
	"net/http"

	"github.com/findithq/findit/internal/filter"
	"github.com/findithq/findit/internal/model"
	"github.com/findithq/findit/internal/store"
)

// SearchPage handles GET /search. The full collection is fetched every time
// and narrowed by the filter engine, so a changed criterion always recomputes
// from the current items rather than patching a previous result.
func (s *Server) SearchPage(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
	}

	q := r.URL.Query()
	spec := filter.Spec{
		Term:       q.Get("term"),
		Kind:       filter.ParseKind(q.Get("kind")),
		CategoryID: q.Get("category"),
		Status:     filter.ParseStatus(q.Get("status")),
	}

	// One-shot flash after a successful report submission.
	success := ""
	if q.Get("reported") == "1" {
		success = "Your report has been submitted."
	}

	s.Templates.Render(w, "search.html", &struct {
		PageData
		Items      []model.Item
		Categories []model.Category
		Spec       filter.Spec
		Total      int
	}{
		PageData:   PageData{Title: "Search Items", Page: "search", Profile: CurrentProfile(r.Context()), Success: success},
		Items:      filter.Apply(items, spec),
		Categories: categories,
		Spec:       spec,
		Total:      len(items),
	})
}
