package api

import (
	"context"

	"github.com/shopspring/decimal"

	"tesouraria/internal/models"
)

// Service defines the operations the handlers need from the remote
// financial API, so tests can substitute a stub.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListMovements(ctx context.Context, tipo models.MovementType, period models.Period) ([]models.Movement, error)
	GetMovement(ctx context.Context, id int64) (*models.Movement, error)
	CreateMovement(ctx context.Context, m models.Movement) error
	UpdateMovement(ctx context.Context, id int64, m models.Movement) error
	DeleteMovement(ctx context.Context, id int64) error
	GetTotals(ctx context.Context, period models.Period) (models.Totals, error)
	GetOverallBalance(ctx context.Context) (decimal.Decimal, error)
}
