package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tesouraria/internal/api"
	"tesouraria/internal/config"
	"tesouraria/internal/handlers"
	"tesouraria/internal/session"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store := session.NewMemoryStore(session.DefaultTTL)
	defer store.Close()

	h, err := handlers.NewHandlers(
		api.NewClient(cfg.APIURL),
		session.NewManager(store, cfg.SessionSecret, cfg.SecureCookie),
	)
	if err != nil {
		slog.Error("Failed to initialize handlers", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handlers.RequestLogger(setupRouter(h)),
	}

	go func() {
		slog.Info("Server listening", "addr", cfg.Addr(), "api_url", cfg.APIURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

// setupRouter registers every route. Anything touching financial data
// sits behind the session gate.
func setupRouter(h *handlers.Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /logout", h.Logout)

	protected := func(fn http.HandlerFunc) http.Handler {
		return h.RequireAuth(fn)
	}
	mux.Handle("GET /{$}", protected(h.Dashboard))
	mux.Handle("GET /dizimos", protected(h.ListTithes))
	mux.Handle("GET /ofertas", protected(h.ListOfferings))
	mux.Handle("GET /despesas", protected(h.ListExpenses))
	mux.Handle("GET /novo/{tipo}", protected(h.NewMovementForm))
	mux.Handle("POST /novo/{tipo}", protected(h.CreateMovement))
	mux.Handle("GET /editar/{id}", protected(h.EditMovementForm))
	mux.Handle("POST /editar/{id}", protected(h.UpdateMovement))
	mux.Handle("DELETE /excluir/{id}", protected(h.DeleteMovement))

	return mux
}
