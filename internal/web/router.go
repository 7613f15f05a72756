package web

import (
	"database/sql"
	"net/http"

	webembed "github.com/findithq/findit/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, jwtSecret string) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		JWTSecret: jwtSecret,
	}

	mux := http.NewServeMux()
	session := WithSession(jwtSecret, db)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public pages.
	mux.Handle("GET /{$}", session(http.HandlerFunc(s.Home)))
	mux.Handle("GET /login", session(http.HandlerFunc(s.LoginPage)))
	mux.Handle("POST /login", session(http.HandlerFunc(s.LoginSubmit)))
	mux.Handle("GET /register", session(http.HandlerFunc(s.RegisterPage)))
	mux.Handle("POST /register", session(http.HandlerFunc(s.RegisterSubmit)))
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated pages.
	mux.Handle("GET /search", session(RequireAuth(http.HandlerFunc(s.SearchPage))))
	mux.Handle("GET /report", session(RequireAuth(http.HandlerFunc(s.ReportPage))))
	mux.Handle("POST /report", session(RequireAuth(http.HandlerFunc(s.ReportSubmit))))

	// Admin dashboard and moderation actions.
	mux.Handle("GET /admin", session(RequireAdmin(http.HandlerFunc(s.AdminPage))))
	mux.Handle("POST /admin/items/{id}/status", session(RequireAdmin(http.HandlerFunc(s.AdminItemStatus))))
	mux.Handle("POST /admin/items/{id}/delete", session(RequireAdmin(http.HandlerFunc(s.AdminItemDelete))))
	mux.Handle("POST /admin/profiles/{id}/admin", session(RequireAdmin(http.HandlerFunc(s.AdminToggleAdmin))))
	mux.Handle("POST /admin/categories", session(RequireAdmin(http.HandlerFunc(s.AdminCategoryCreate))))
	mux.Handle("POST /admin/categories/{id}/delete", session(RequireAdmin(http.HandlerFunc(s.AdminCategoryDelete))))

	return mux, nil
}
