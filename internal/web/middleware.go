package web

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/findithq/findit/internal/auth"
	"github.com/findithq/findit/internal/model"
	"github.com/findithq/findit/internal/store"
)

type webContextKey string

const webProfileKey webContextKey = "webprofile"

// WithSession resolves the visitor's identity from the token cookie and, when
// valid, loads the matching profile into the request context. Pages render
// for anonymous visitors too, so an invalid or missing token just clears the
// cookie and continues. The profile is loaded fresh on every request: a
// token's claims are never trusted for privilege decisions.
func WithSession(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("token")
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ValidateToken(secret, cookie.Value)
			if err != nil {
				clearAuthCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			if claims.ID != "" {
				revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID)
				if err != nil || revoked {
					if err != nil {
						slog.Error("failed to check token revocation", "error", err)
					}
					clearAuthCookie(w)
					next.ServeHTTP(w, r)
					return
				}
			}

			// Fail closed: no profile, no session.
			profile, err := store.GetProfile(r.Context(), db, claims.ProfileID)
			if err != nil || profile == nil {
				if err != nil {
					slog.Error("failed to load session profile", "error", err)
				}
				clearAuthCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), webProfileKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects anonymous visitors to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentProfile(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin redirects non-admins to the home page. The profile comes from
// WithSession, which already loaded it from the database this request.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile := CurrentProfile(r.Context())
		if profile == nil || !profile.IsAdmin {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentProfile retrieves the authenticated profile from the context, or nil.
func CurrentProfile(ctx context.Context) *model.Profile {
	profile, _ := ctx.Value(webProfileKey).(*model.Profile)
	return profile
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
