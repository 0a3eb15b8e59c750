package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType classifies a financial movement.
type MovementType string

const (
	TypeTithe    MovementType = "dizimo"
	TypeOffering MovementType = "oferta"
	TypeExpense  MovementType = "despesa"
)

// listingRoutes maps each movement type to the page that lists it.
var listingRoutes = map[MovementType]string{
	TypeTithe:    "/dizimos",
	TypeOffering: "/ofertas",
	TypeExpense:  "/despesas",
}

// Types returns every known movement type.
func Types() []MovementType {
	return []MovementType{TypeTithe, TypeOffering, TypeExpense}
}

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	_, ok := listingRoutes[t]
	return ok
}

// ListingRoute returns the listing page for this movement type.
func (t MovementType) ListingRoute() (string, bool) {
	route, ok := listingRoutes[t]
	return route, ok
}

// ValidateListingRoutes checks at startup that every movement type has a
// listing route, so an unmapped type can never slip through to a handler.
func ValidateListingRoutes() error {
	for _, t := range Types() {
		if _, ok := listingRoutes[t]; !ok {
			return fmt.Errorf("movement type %q has no listing route", t)
		}
	}
	return nil
}

// Movement is a single financial record as exchanged with the remote API.
// UserID links a tithe to its contributing user and must be nil for every
// other type; Normalize enforces that before submission.
type Movement struct {
	ID          int64           `json:"id,omitempty"`
	Description string          `json:"descricao" validate:"required"`
	Amount      decimal.Decimal `json:"valor" validate:"-"`
	Type        MovementType    `json:"tipo" validate:"required,oneof=dizimo oferta despesa"`
	Date        string          `json:"data" validate:"required,datetime=2006-01-02"`
	UserID      *int64          `json:"usuarioId"`
}

// Normalize clears the user link on non-tithe movements.
func (m *Movement) Normalize() {
	if m.Type != TypeTithe {
		m.UserID = nil
	}
}

// User is the account record returned by the remote API. Beyond the
// identifier and display name its shape is owned by the API.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"nome"`
	Username string `json:"usuario"`
}

// Totals holds the per-type aggregate amounts for one period.
type Totals struct {
	Tithe    decimal.Decimal `json:"dizimo"`
	Offering decimal.Decimal `json:"oferta"`
	Expense  decimal.Decimal `json:"despesa"`
}

// Period is a month/year filter. Month is a zero-padded 1-12 string and
// Year a 4-digit string when derived from the clock; caller-supplied
// values are carried verbatim.
type Period struct {
	Month string
	Year  string
}

// CurrentPeriod derives the period for the given instant.
func CurrentPeriod(now time.Time) Period {
	return Period{
		Month: fmt.Sprintf("%02d", int(now.Month())),
		Year:  fmt.Sprintf("%04d", now.Year()),
	}
}

// PeriodFrom returns the effective period: explicit values win, absent
// ones default from now. No range validation is applied to explicit
// values; they are forwarded to the API unchanged.
func PeriodFrom(month, year string, now time.Time) Period {
	p := CurrentPeriod(now)
	if month != "" {
		p.Month = month
	}
	if year != "" {
		p.Year = year
	}
	return p
}
