package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"madrasa/internal/core"
)

const recordTimeout = 7 * time.Second

type transactionPayload struct {
	ID          string `json:"id,omitempty"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Amount      string `json:"amount"` // decimal string, e.g. "1500" or "1500.50"
	AmountCents int64  `json:"amount_cents,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	StudentID   string `json:"student_id,omitempty"`
	StaffID     string `json:"staff_id,omitempty"`
}

func toTransactionPayload(tx core.Transaction) transactionPayload {
	return transactionPayload{
		ID:          tx.ID,
		Kind:        string(tx.Kind),
		Category:    string(tx.Category),
		Amount:      tx.Amount.String(),
		AmountCents: tx.Amount.Cents,
		Date:        tx.Date.String(),
		Description: tx.Description,
		StudentID:   tx.StudentID,
		StaffID:     tx.StaffID,
	}
}

func (p transactionPayload) toDomain() (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(p.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Kind:        core.Kind(p.Kind),
		Category:    core.Category(p.Category),
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Description: p.Description,
		StudentID:   p.StudentID,
		StaffID:     p.StaffID,
	}, nil
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), recordTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		txs, err := s.records.ListTransactions(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list transactions", "error", err)
			respondError(w, r, http.StatusInternalServerError, "failed to list transactions")
			return
		}
		out := make([]transactionPayload, 0, len(txs))
		for _, tx := range txs {
			out = append(out, toTransactionPayload(tx))
		}
		respondJSON(w, r, http.StatusOK, out)

	case http.MethodPost:
		var p transactionPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
		tx, err := p.toDomain()
		if err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		id, err := s.records.CreateTransaction(ctx, tx)
		if err != nil {
			if isValidation(err) {
				respondError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			slog.ErrorContext(ctx, "Failed to create transaction", "error", err)
			respondError(w, r, http.StatusInternalServerError, "failed to create transaction")
			return
		}
		respondJSON(w, r, http.StatusCreated, map[string]string{"id": id})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), recordTimeout)
	defer cancel()

	id := pathID(r, "/api/transactions/")
	if id == "" {
		respondError(w, r, http.StatusBadRequest, "missing transaction id")
		return
	}
	if err := s.records.DeleteTransaction(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to delete transaction", "error", err, "id", id)
		respondError(w, r, http.StatusNotFound, "transaction not found")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleStudents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), recordTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		students, err := s.records.ListStudents(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list students", "error", err)
			respondError(w, r, http.StatusInternalServerError, "failed to list students")
			return
		}
		respondJSON(w, r, http.StatusOK, students)

	case http.MethodPost:
		var st core.Student
		if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
		id, err := s.records.CreateStudent(ctx, st)
		if err != nil {
			if isValidation(err) {
				respondError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			slog.ErrorContext(ctx, "Failed to create student", "error", err)
			respondError(w, r, http.StatusInternalServerError, "failed to create student")
			return
		}
		respondJSON(w, r, http.StatusCreated, map[string]string{"id": id})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleStudentByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), recordTimeout)
	defer cancel()

	id := pathID(r, "/api/students/")
	if id == "" {
		respondError(w, r, http.StatusBadRequest, "missing student id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var st core.Student
		if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
		st.ID = id
		if err := s.records.UpdateStudent(ctx, st); err != nil {
			if isValidation(err) {
				respondError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			respondError(w, r, http.StatusNotFound, "student not found")
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]string{"updated": id})

	case http.MethodDelete:
		if err := s.records.DeleteStudent(ctx, id); err != nil {
			respondError(w, r, http.StatusNotFound, "student not found")
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]string{"deleted": id})

	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}

func (s *Server) handleStaff(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), recordTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		staff, err := s.records.ListStaff(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list staff", "error", err)
			respondError(w, r, http.StatusInternalServerError, "failed to list staff")
			return
		}
		respondJSON(w, r, http.StatusOK, staff)

	case http.MethodPost:
		var st core.Staff
		if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
		id, err := s.records.CreateStaff(ctx, st)
		if err != nil {
			if isValidation(err) {
				respondError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			slog.ErrorContext(ctx, "Failed to create staff", "error", err)
			respondError(w, r, http.StatusInternalServerError, "failed to create staff")
			return
		}
		respondJSON(w, r, http.StatusCreated, map[string]string{"id": id})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleStaffByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), recordTimeout)
	defer cancel()

	id := pathID(r, "/api/staff/")
	if id == "" {
		respondError(w, r, http.StatusBadRequest, "missing staff id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var st core.Staff
		if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
		st.ID = id
		if err := s.records.UpdateStaff(ctx, st); err != nil {
			if isValidation(err) {
				respondError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			respondError(w, r, http.StatusNotFound, "staff not found")
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]string{"updated": id})

	case http.MethodDelete:
		if err := s.records.DeleteStaff(ctx, id); err != nil {
			respondError(w, r, http.StatusNotFound, "staff not found")
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]string{"deleted": id})

	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), recordTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		items, err := s.records.ListInventory(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list inventory", "error", err)
			respondError(w, r, http.StatusInternalServerError, "failed to list inventory")
			return
		}
		respondJSON(w, r, http.StatusOK, items)

	case http.MethodPost:
		var it core.InventoryItem
		if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
		id, err := s.records.CreateInventoryItem(ctx, it)
		if err != nil {
			if isValidation(err) {
				respondError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			slog.ErrorContext(ctx, "Failed to create inventory item", "error", err)
			respondError(w, r, http.StatusInternalServerError, "failed to create inventory item")
			return
		}
		respondJSON(w, r, http.StatusCreated, map[string]string{"id": id})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleInventoryByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), recordTimeout)
	defer cancel()

	id := pathID(r, "/api/inventory/")
	if id == "" {
		respondError(w, r, http.StatusBadRequest, "missing inventory id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var it core.InventoryItem
		if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
		it.ID = id
		if err := s.records.UpdateInventoryItem(ctx, it); err != nil {
			if isValidation(err) {
				respondError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			respondError(w, r, http.StatusNotFound, "inventory item not found")
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]string{"updated": id})

	case http.MethodDelete:
		if err := s.records.DeleteInventoryItem(ctx, id); err != nil {
			respondError(w, r, http.StatusNotFound, "inventory item not found")
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]string{"deleted": id})

	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}

// isValidation reports whether err is a domain validation failure that
// should map to a 400 rather than a 500.
func isValidation(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidKind) ||
		errors.Is(err, core.ErrInvalidCategory) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrConflictingLink) ||
		errors.Is(err, core.ErrMissingLink) ||
		errors.Is(err, core.ErrEmptyName)
}
