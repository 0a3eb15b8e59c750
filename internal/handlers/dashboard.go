package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"tesouraria/internal/models"
)

// DashboardViewModel is the data passed to the dashboard template.
type DashboardViewModel struct {
	User    *models.User
	Totals  models.Totals
	Balance decimal.Decimal
	Month   string
	Year    string
}

// Dashboard renders the landing page with the period totals and the
// overall balance. The two reads are independent and issued concurrently.
// The page never fails outright: if either read errors, it degrades to
// zeroed totals and balance under the current period.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	period := models.PeriodFrom(r.URL.Query().Get("mes"), r.URL.Query().Get("ano"), now)

	var totals models.Totals
	var balance decimal.Decimal

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		t, err := h.api.GetTotals(ctx, period)
		if err == nil {
			totals = t
		}
		return err
	})
	g.Go(func() error {
		b, err := h.api.GetOverallBalance(ctx)
		if err == nil {
			balance = b
		}
		return err
	})

	if err := g.Wait(); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard reads failed", "error", err, "mes", period.Month, "ano", period.Year)
		totals = models.Totals{}
		balance = decimal.Zero
		period = models.CurrentPeriod(now)
	}

	h.render(w, r, "index.html", DashboardViewModel{
		User:    GetUserFromContext(r),
		Totals:  totals,
		Balance: balance,
		Month:   period.Month,
		Year:    period.Year,
	})
}
