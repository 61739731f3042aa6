package http

import (
	"net/http"
	"time"

	"madrasa/internal/ledger"
	"madrasa/internal/render"
)

type dashboardResponse struct {
	State string `json:"state"`
	Stale bool   `json:"stale"`

	MonthlyIncomeCents  int64  `json:"monthly_income_cents"`
	MonthlyExpenseCents int64  `json:"monthly_expense_cents"`
	CurrentCashCents    int64  `json:"current_cash_cents"`
	MonthlyIncome       string `json:"monthly_income"`
	MonthlyExpense      string `json:"monthly_expense"`
	CurrentCash         string `json:"current_cash"`

	Series  []seriesPoint `json:"series"`
	Skipped int           `json:"skipped_records,omitempty"`
}

type seriesPoint struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Label        string `json:"label"`
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
}

// handleDashboard returns the latest derived view of the ledger. The state
// field distinguishes "still loading" from "no data" from "ready", and
// stale flags a degraded live feed.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	view := s.watcher.Current()

	resp := dashboardResponse{
		State:               string(view.State),
		Stale:               view.Stale,
		MonthlyIncomeCents:  view.Stats.MonthlyIncome.Cents,
		MonthlyExpenseCents: view.Stats.MonthlyExpense.Cents,
		CurrentCashCents:    view.Stats.CurrentCash.Cents,
		MonthlyIncome:       render.FormatAmount(view.Stats.MonthlyIncome),
		MonthlyExpense:      render.FormatAmount(view.Stats.MonthlyExpense),
		CurrentCash:         render.FormatAmount(view.Stats.CurrentCash),
		Skipped:             view.Stats.Skipped,
		Series:              make([]seriesPoint, 0, ledger.SeriesCap),
	}
	for _, b := range view.Stats.Series {
		resp.Series = append(resp.Series, seriesPoint{
			Year:         b.Year,
			Month:        int(b.Month),
			Label:        b.Label,
			IncomeCents:  b.Income.Cents,
			ExpenseCents: b.Expense.Cents,
		})
	}

	respondJSON(w, r, http.StatusOK, resp)
}

// currentMonthRange mirrors the report page default: first of the current
// month through today.
func currentMonthRange(now time.Time) (string, string) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start.Format("2006-01-02"), now.Format("2006-01-02")
}
