// Package handlers maps each HTTP route to a session check, calls to the
// remote financial API and a rendered view or redirect.
package handlers

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"tesouraria/internal/api"
	"tesouraria/internal/models"
	"tesouraria/internal/money"
	"tesouraria/internal/session"
	"tesouraria/web"
)

// Context key type to avoid collisions.
type contextKey string

// UserContextKey is the context key for the authenticated user.
const UserContextKey contextKey = "user"

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	api       api.Service
	sessions  *session.Manager
	templates *template.Template
	validate  *validator.Validate
}

// NewHandlers creates a Handlers instance, parsing the embedded templates
// and checking that every movement type has a listing route.
func NewHandlers(svc api.Service, sessions *session.Manager) (*Handlers, error) {
	if err := models.ValidateListingRoutes(); err != nil {
		return nil, err
	}

	templates, err := template.New("").Funcs(template.FuncMap{
		"formatCurrency": money.FormatBRL,
	}).ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Handlers{
		api:       svc,
		sessions:  sessions,
		templates: templates,
		validate:  validator.New(),
	}, nil
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// RequireAuth wraps handlers to require an authenticated session. An
// anonymous request is redirected to /login before anything else runs.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.sessions.User(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger logs every request with method, path, status and duration,
// and sets the baseline security headers on the response.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		slog.InfoContext(r.Context(), "Request completed",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// LoginViewModel holds data for the login page.
type LoginViewModel struct {
	Error string
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	// Already logged in: straight to the dashboard.
	if _, ok := h.sessions.User(r); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, "login.html", LoginViewModel{})
}

// Login authenticates the submitted credentials against the remote API
// and starts a session. Any failure, invalid credentials or unreachable
// API alike, re-renders the form with a generic message; the detail is
// only logged.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "login.html", LoginViewModel{Error: "Usuário ou senha inválidos"})
		return
	}

	user, err := h.api.Login(r.Context(), r.FormValue("usuario"), r.FormValue("senha"))
	if err != nil {
		slog.ErrorContext(r.Context(), "Login failed", "error", err)
		h.render(w, r, "login.html", LoginViewModel{Error: "Usuário ou senha inválidos"})
		return
	}

	h.sessions.Issue(w, user)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout destroys the session unconditionally and redirects to /login.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w, r)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, viewName string, data any) {
	if err := h.templates.ExecuteTemplate(w, viewName, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", viewName)
		http.Error(w, "Erro ao renderizar página", http.StatusInternalServerError)
	}
}
