package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/findithq/findit/internal/model"
	"github.com/findithq/findit/internal/store"
)

// reportData carries the form state so a failed submit re-renders with
// everything the user entered still in place.
type reportData struct {
	PageData
	Categories []model.Category
	Form       model.NewItemInput
	FormDate   string
	Today      string
}

// ReportPage handles GET /report.
func (s *Server) ReportPage(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
	}

	today := time.Now().Format("2006-01-02")
	s.Templates.Render(w, "report.html", &reportData{
		PageData:   PageData{Title: "Report an Item", Page: "report", Profile: CurrentProfile(r.Context())},
		Categories: categories,
		Form:       model.NewItemInput{Kind: model.KindLost},
		FormDate:   today,
		Today:      today,
	})
}

// ReportSubmit handles POST /report. Required fields are checked first, then
// the report date; the item is stored with status open no matter what.
func (s *Server) ReportSubmit(w http.ResponseWriter, r *http.Request) {
	profile := CurrentProfile(r.Context())

	in := model.NewItemInput{
		Kind:        r.FormValue("kind"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
		CategoryID:  r.FormValue("category_id"),
		ImageURL:    r.FormValue("image_url"),
		ContactInfo: r.FormValue("contact_info"),
	}
	dateStr := r.FormValue("date_reported")
	if dateStr != "" {
		if date, err := time.Parse("2006-01-02", dateStr); err == nil {
			in.DateReported = date
		}
	}

	if err := in.Validate(time.Now()); err != nil {
		categories, _ := store.ListCategories(r.Context(), s.DB)
		s.Templates.Render(w, "report.html", &reportData{
			PageData:   PageData{Title: "Report an Item", Page: "report", Profile: profile, Error: err.Error()},
			Categories: categories,
			Form:       in,
			FormDate:   dateStr,
			Today:      time.Now().Format("2006-01-02"),
		})
		return
	}

	item, err := store.CreateItem(r.Context(), s.DB, profile.ID, in)
	if err != nil {
		slog.Error("failed to create item", "error", err)
		categories, _ := store.ListCategories(r.Context(), s.DB)
		s.Templates.Render(w, "report.html", &reportData{
			PageData:   PageData{Title: "Report an Item", Page: "report", Profile: profile, Error: "Failed to save the report, please try again."},
			Categories: categories,
			Form:       in,
			FormDate:   dateStr,
			Today:      time.Now().Format("2006-01-02"),
		})
		return
	}

	slog.Info("item reported", "email", profile.Email, "kind", item.Kind, "title", item.Title)
	http.Redirect(w, r, "/search?reported=1", http.StatusSeeOther)
}
