package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingRoutes(t *testing.T) {
	require.NoError(t, ValidateListingRoutes())

	tests := []struct {
		tipo  MovementType
		route string
	}{
		{TypeTithe, "/dizimos"},
		{TypeOffering, "/ofertas"},
		{TypeExpense, "/despesas"},
	}
	for _, tt := range tests {
		route, ok := tt.tipo.ListingRoute()
		assert.True(t, ok)
		assert.Equal(t, tt.route, route)
	}

	_, ok := MovementType("salario").ListingRoute()
	assert.False(t, ok)
	assert.False(t, MovementType("salario").Valid())
}

func TestNormalize(t *testing.T) {
	userID := int64(42)

	tithe := Movement{Type: TypeTithe, UserID: &userID}
	tithe.Normalize()
	require.NotNil(t, tithe.UserID, "tithe keeps its user link")
	assert.Equal(t, int64(42), *tithe.UserID)

	for _, tipo := range []MovementType{TypeOffering, TypeExpense} {
		id := userID
		m := Movement{Type: tipo, UserID: &id}
		m.Normalize()
		assert.Nil(t, m.UserID, "%s must not carry a user link", tipo)
	}
}

func TestPeriodDefaults(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	p := CurrentPeriod(now)
	assert.Equal(t, "03", p.Month)
	assert.Equal(t, "2024", p.Year)

	// Explicit values win and pass through untouched.
	p = PeriodFrom("12", "1999", now)
	assert.Equal(t, Period{Month: "12", Year: "1999"}, p)

	// Out-of-range input is forwarded verbatim.
	p = PeriodFrom("13", "", now)
	assert.Equal(t, Period{Month: "13", Year: "2024"}, p)
}

func TestMovementJSON(t *testing.T) {
	m := Movement{
		Description: "Oferta especial",
		Amount:      decimal.NewFromInt(100),
		Type:        TypeOffering,
		Date:        "2024-05-01",
	}
	m.Normalize()
	assert.Nil(t, m.UserID)
	assert.Equal(t, "100", m.Amount.String())
}
