// Package storage persists the madrasa collections in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"madrasa/internal/core"
	"madrasa/internal/store"

	_ "modernc.org/sqlite"
)

// Repository is the SQLite-backed document store. The live snapshot feed is
// layered on top by the services package; the repository itself only does
// persistence and point queries.
type Repository struct {
	db *sql.DB
}

var (
	_ store.TransactionQuerier = (*Repository)(nil)
	_ store.TransactionWriter  = (*Repository)(nil)
	_ store.StudentStore       = (*Repository)(nil)
	_ store.StaffStore         = (*Repository)(nil)
	_ store.InventoryStore     = (*Repository)(nil)
)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = "id, kind, category, amount_cents, date, description, student_id, staff_id"

// CreateTransaction implements store.TransactionWriter. The id is assigned
// here and returned; seq provides the stable insertion-order tiebreak.
func (r *Repository) CreateTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	tx.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, string(tx.Kind), string(tx.Category), tx.Amount.Cents,
		tx.Date.String(), tx.Description, tx.StudentID, tx.StaffID)
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"kind", string(tx.Kind),
		"category", string(tx.Category),
		"amount_cents", tx.Amount.Cents,
		"date", tx.Date.String())

	return tx.ID, nil
}

// DeleteTransaction removes the row outright; deletions surface to live
// subscribers only as the item missing from the next snapshot.
func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListTransactions returns the full set in insertion order.
func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// TransactionsInRange implements store.TransactionQuerier: date ascending,
// seq as the stable tiebreak. ISO date strings compare correctly as text.
func (r *Repository) TransactionsInRange(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE date >= ? AND date <= ?
		 ORDER BY date, seq`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("query transactions in range: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		var (
			tx       core.Transaction
			kind     string
			category string
			cents    int64
			date     string
		)
		if err := rows.Scan(&tx.ID, &kind, &category, &cents, &date,
			&tx.Description, &tx.StudentID, &tx.StaffID); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Kind = core.Kind(kind)
		tx.Category = core.Category(category)
		tx.Amount = core.Money{Cents: cents}
		d, err := core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		tx.Date = d
		out = append(out, tx)
	}
	return out, rows.Err()
}

// CreateStudent implements store.StudentStore.
func (r *Repository) CreateStudent(ctx context.Context, s core.Student) (string, error) {
	s.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO students (id, code, name, roll, class, residency, father_name, mother_name, mobile)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Code, s.Name, s.Roll, s.Class, s.Residency, s.FatherName, s.MotherName, s.Mobile)
	if err != nil {
		return "", fmt.Errorf("create student: %w", err)
	}
	return s.ID, nil
}

func (r *Repository) UpdateStudent(ctx context.Context, s core.Student) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET code = ?, name = ?, roll = ?, class = ?, residency = ?,
		 father_name = ?, mother_name = ?, mobile = ? WHERE id = ?`,
		s.Code, s.Name, s.Roll, s.Class, s.Residency, s.FatherName, s.MotherName, s.Mobile, s.ID)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repository) DeleteStudent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repository) ListStudents(ctx context.Context) ([]core.Student, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, name, roll, class, residency, father_name, mother_name, mobile, created_at
		 FROM students ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var out []core.Student
	for rows.Next() {
		var s core.Student
		var createdAt time.Time
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Roll, &s.Class, &s.Residency,
			&s.FatherName, &s.MotherName, &s.Mobile, &createdAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		s.CreatedAt = createdAt
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateStaff implements store.StaffStore.
func (r *Repository) CreateStaff(ctx context.Context, s core.Staff) (string, error) {
	s.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO staff (id, name, designation, mobile, salary_cents) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Designation, s.Mobile, s.Salary.Cents)
	if err != nil {
		return "", fmt.Errorf("create staff: %w", err)
	}
	return s.ID, nil
}

func (r *Repository) UpdateStaff(ctx context.Context, s core.Staff) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE staff SET name = ?, designation = ?, mobile = ?, salary_cents = ? WHERE id = ?`,
		s.Name, s.Designation, s.Mobile, s.Salary.Cents, s.ID)
	if err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repository) DeleteStaff(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repository) ListStaff(ctx context.Context) ([]core.Staff, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, designation, mobile, salary_cents, created_at
		 FROM staff ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var out []core.Staff
	for rows.Next() {
		var s core.Staff
		var cents int64
		var createdAt time.Time
		if err := rows.Scan(&s.ID, &s.Name, &s.Designation, &s.Mobile, &cents, &createdAt); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		s.Salary = core.Money{Cents: cents}
		s.CreatedAt = createdAt
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateInventoryItem implements store.InventoryStore.
func (r *Repository) CreateInventoryItem(ctx context.Context, it core.InventoryItem) (string, error) {
	it.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inventory (id, name, quantity, unit, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		it.ID, it.Name, it.Quantity, it.Unit)
	if err != nil {
		return "", fmt.Errorf("create inventory item: %w", err)
	}
	return it.ID, nil
}

func (r *Repository) UpdateInventoryItem(ctx context.Context, it core.InventoryItem) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inventory SET name = ?, quantity = ?, unit = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		it.Name, it.Quantity, it.Unit, it.ID)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repository) DeleteInventoryItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repository) ListInventory(ctx context.Context) ([]core.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, quantity, unit, updated_at FROM inventory ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var out []core.InventoryItem
	for rows.Next() {
		var it core.InventoryItem
		var updatedAt time.Time
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity, &it.Unit, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		it.UpdatedAt = updatedAt
		out = append(out, it)
	}
	return out, rows.Err()
}
