package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"madrasa/internal/core"
	"madrasa/internal/render"
	"madrasa/internal/report"
)

const reportTimeout = 10 * time.Second

type extractResponse struct {
	Start             string               `json:"start"`
	End               string               `json:"end"`
	Transactions      []transactionPayload `json:"transactions"`
	TotalIncomeCents  int64                `json:"total_income_cents"`
	TotalExpenseCents int64                `json:"total_expense_cents"`
	NetCents          int64                `json:"net_cents"`
	Skipped           int                  `json:"skipped_records,omitempty"`
}

// handleReport re-queries the store for the requested range. On a failed
// refresh the last good extract stays untouched and the client receives an
// explicit query-failed status instead of a cleared report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}

	ext, err := s.extractor.Refresh(ctx, start, end)
	if err != nil {
		if errors.Is(err, report.ErrStaleResult) {
			// A newer refresh already won; serve its result.
			if last, ok := s.extractor.Last(); ok {
				respondJSON(w, r, http.StatusOK, toExtractResponse(last))
				return
			}
		}
		slog.ErrorContext(ctx, "Report refresh failed", "error", err)
		respondError(w, r, http.StatusBadGateway, "report query failed; previous report preserved")
		return
	}

	respondJSON(w, r, http.StatusOK, toExtractResponse(ext))
}

// handleStatement renders the print-ready document for the range.
func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}

	ext, err := s.extractor.Refresh(ctx, start, end)
	if err != nil && !errors.Is(err, report.ErrStaleResult) {
		slog.ErrorContext(ctx, "Statement refresh failed", "error", err)
		respondError(w, r, http.StatusBadGateway, "report query failed; previous report preserved")
		return
	}
	if errors.Is(err, report.ErrStaleResult) {
		last, ok := s.extractor.Last()
		if !ok {
			respondError(w, r, http.StatusBadGateway, "no report available")
			return
		}
		ext = last
	}

	students, err := s.records.ListStudents(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load student roster for statement", "error", err)
	}
	staff, err := s.records.ListStaff(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load staff roster for statement", "error", err)
	}

	st := render.BuildStatement(ext, students, staff, render.Options{
		Title:    s.statementTitle,
		Subtitle: s.statementSubtitle,
	})
	respondJSON(w, r, http.StatusOK, st)
}

// parseRange reads start/end query params, defaulting to the current month
// to date. Responds with 400 on malformed dates.
func parseRange(w http.ResponseWriter, r *http.Request) (core.Date, core.Date, bool) {
	defStart, defEnd := currentMonthRange(time.Now())

	startStr := r.URL.Query().Get("start")
	if startStr == "" {
		startStr = defStart
	}
	endStr := r.URL.Query().Get("end")
	if endStr == "" {
		endStr = defEnd
	}

	start, err := core.ParseDate(startStr)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid start date, want YYYY-MM-DD")
		return core.Date{}, core.Date{}, false
	}
	end, err := core.ParseDate(endStr)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid end date, want YYYY-MM-DD")
		return core.Date{}, core.Date{}, false
	}
	return start, end, true
}

func toExtractResponse(ext report.Extract) extractResponse {
	resp := extractResponse{
		Start:             ext.Start.String(),
		End:               ext.End.String(),
		Transactions:      make([]transactionPayload, 0, len(ext.Transactions)),
		TotalIncomeCents:  ext.TotalIncome.Cents,
		TotalExpenseCents: ext.TotalExpense.Cents,
		NetCents:          ext.Net.Cents,
		Skipped:           ext.Skipped,
	}
	for _, tx := range ext.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionPayload(tx))
	}
	return resp
}
