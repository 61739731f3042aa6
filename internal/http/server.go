// Package http serves the JSON API: the live dashboard view, report
// extracts and statements, and the record CRUD surfaces.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"madrasa/internal/ledger"
	"madrasa/internal/report"
	"madrasa/internal/services"
)

// Server wires handlers over the ledger watcher, the report extractor and
// the record service.
type Server struct {
	*http.Server

	watcher   *ledger.Watcher
	extractor *report.Extractor
	records   *services.RecordService

	statementTitle    string
	statementSubtitle string
}

// NewServer builds the API server listening on addr.
func NewServer(
	addr string,
	watcher *ledger.Watcher,
	extractor *report.Extractor,
	records *services.RecordService,
	statementTitle, statementSubtitle string,
) *Server {
	s := &Server{
		watcher:           watcher,
		extractor:         extractor,
		records:           records,
		statementTitle:    statementTitle,
		statementSubtitle: statementSubtitle,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/reports", s.handleReport)
	mux.HandleFunc("/api/reports/statement", s.handleStatement)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/", s.handleTransactionByID)
	mux.HandleFunc("/api/students", s.handleStudents)
	mux.HandleFunc("/api/students/", s.handleStudentByID)
	mux.HandleFunc("/api/staff", s.handleStaff)
	mux.HandleFunc("/api/staff/", s.handleStaffByID)
	mux.HandleFunc("/api/inventory", s.handleInventory)
	mux.HandleFunc("/api/inventory/", s.handleInventoryByID)

	s.Server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// pathID extracts the trailing id from prefix-routed paths; empty when the
// path carries no id.
func pathID(r *http.Request, prefix string) string {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	return strings.Trim(id, "/")
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response", "error", err, "path", r.URL.Path)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respondJSON(w, r, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}
