package web

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/findithq/findit/internal/auth"
	"github.com/findithq/findit/internal/model"
	"github.com/findithq/findit/internal/store"
)

// registerData carries entered values back to the form on validation errors
// so nothing the user typed is lost.
type registerData struct {
	PageData
	Email    string
	FullName string
	Phone    string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if CurrentProfile(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "login.html", &PageData{Title: "Login", Page: "login"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")

	if email == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Login",
			Page:  "login",
			Error: "Enter your email and password.",
		})
		return
	}

	profile, err := store.GetProfileByEmail(r.Context(), s.DB, email)
	if err != nil || profile == nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Login",
			Page:  "login",
			Error: "Invalid email or password.",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "email", email, "remote", r.RemoteAddr)
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Login",
			Page:  "login",
			Error: "Invalid email or password.",
		})
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, profile.ID, profile.Email)
	if err != nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Login",
			Page:  "login",
			Error: "Login failed, please try again.",
		})
		return
	}

	setAuthCookie(w, token)
	slog.Info("profile logged in", "email", profile.Email)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if CurrentProfile(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "register.html", &registerData{
		PageData: PageData{Title: "Register", Page: "register"},
	})
}

// RegisterSubmit handles POST /register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")
	fullName := strings.TrimSpace(r.FormValue("full_name"))
	phone := strings.TrimSpace(r.FormValue("phone"))

	renderError := func(msg string) {
		s.Templates.Render(w, "register.html", &registerData{
			PageData: PageData{Title: "Register", Page: "register", Error: msg},
			Email:    email,
			FullName: fullName,
			Phone:    phone,
		})
	}

	if err := model.ValidateEmail(email); err != nil {
		renderError("Enter a valid email address.")
		return
	}
	if err := model.ValidatePassword(password); err != nil {
		renderError("Password must be at least 8 characters.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		renderError("Registration failed, please try again.")
		return
	}

	profile, err := store.CreateProfile(r.Context(), s.DB, email, string(hash), fullName, phone)
	if err != nil {
		renderError("An account with this email already exists.")
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, profile.ID, profile.Email)
	if err != nil {
		renderError("Registration failed, please try again.")
		return
	}

	setAuthCookie(w, token)
	slog.Info("profile registered", "email", profile.Email)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The cookie is cleared unconditionally: a
// failed revocation is logged but must never leave the browser logged in.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.JWTSecret, cookie.Value); err == nil &&
			claims.ID != "" && claims.ExpiresAt != nil {
			if err := store.RevokeToken(r.Context(), s.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
				slog.Error("failed to revoke token on logout", "error", err)
			}
		}
	}

	clearAuthCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// setAuthCookie sets the session cookie with consistent attributes.
func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   7 * 24 * 3600,
	})
}
