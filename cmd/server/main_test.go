package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tesouraria/internal/handlers"
	"tesouraria/internal/models"
	"tesouraria/internal/session"
)

// noopAPI satisfies api.Service for routing tests; no route below should
// reach it without a session.
type noopAPI struct{}

func (noopAPI) Login(ctx context.Context, username, password string) (*models.User, error) {
	return nil, nil
}
func (noopAPI) ListUsers(ctx context.Context) ([]models.User, error) { return nil, nil }
func (noopAPI) ListMovements(ctx context.Context, tipo models.MovementType, period models.Period) ([]models.Movement, error) {
	return nil, nil
}
func (noopAPI) GetMovement(ctx context.Context, id int64) (*models.Movement, error) {
	return nil, nil
}
func (noopAPI) CreateMovement(ctx context.Context, m models.Movement) error { return nil }
func (noopAPI) UpdateMovement(ctx context.Context, id int64, m models.Movement) error {
	return nil
}
func (noopAPI) DeleteMovement(ctx context.Context, id int64) error { return nil }
func (noopAPI) GetTotals(ctx context.Context, period models.Period) (models.Totals, error) {
	return models.Totals{}, nil
}
func (noopAPI) GetOverallBalance(ctx context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func TestSetupRouter(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()

	h, err := handlers.NewHandlers(noopAPI{}, session.NewManager(store, "segredo", false))
	require.NoError(t, err, "failed to build handlers")

	mux := setupRouter(h)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantDest   string
	}{
		{"health check", "GET", "/healthz", http.StatusOK, ""},
		{"login form is public", "GET", "/login", http.StatusOK, ""},
		{"dashboard requires auth", "GET", "/", http.StatusFound, "/login"},
		{"tithes listing requires auth", "GET", "/dizimos", http.StatusFound, "/login"},
		{"offerings listing requires auth", "GET", "/ofertas", http.StatusFound, "/login"},
		{"expenses listing requires auth", "GET", "/despesas", http.StatusFound, "/login"},
		{"creation form requires auth", "GET", "/novo/dizimo", http.StatusFound, "/login"},
		{"creation requires auth", "POST", "/novo/oferta", http.StatusFound, "/login"},
		{"edit form requires auth", "GET", "/editar/3", http.StatusFound, "/login"},
		{"update requires auth", "POST", "/editar/3", http.StatusFound, "/login"},
		{"deletion requires auth", "DELETE", "/excluir/3", http.StatusFound, "/login"},
		{"logout always redirects to login", "GET", "/logout", http.StatusFound, "/login"},
		{"unknown path", "GET", "/nada", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, "%s %s returned unexpected status", tt.method, tt.path)
			if tt.wantDest != "" {
				assert.Equal(t, tt.wantDest, w.Header().Get("Location"))
			}
		})
	}
}
