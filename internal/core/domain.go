package core

import (
	"errors"
	"strings"
	"time"
)

// Kind partitions ledger entries for aggregation. It is an independent field
// chosen by the author of the entry and is never re-derived from the
// category: a StudentFees refund may legitimately be recorded as an Expense.
type Kind string

const (
	Income  Kind = "Income"
	Expense Kind = "Expense"
)

// Category is the closed enumeration of ledger entry categories.
type Category string

const (
	StudentFees     Category = "StudentFees"
	DonationGeneral Category = "DonationGeneral"
	DonationLillah  Category = "DonationLillah"
	KitchenMarket   Category = "KitchenMarket"
	TeacherSalary   Category = "TeacherSalary"
	StaffSalary     Category = "StaffSalary"
	Other           Category = "Other"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		StudentFees, DonationGeneral, DonationLillah,
		KitchenMarket, TeacherSalary, StaffSalary, Other,
	}
}

// LinkRequirement says which roster reference a category expects on an entry.
type LinkRequirement int

const (
	LinkNone LinkRequirement = iota
	LinkStudent
	LinkStaff
)

// LinkRequirement returns the roster link contract for the category.
func (c Category) LinkRequirement() LinkRequirement {
	switch c {
	case StudentFees:
		return LinkStudent
	case TeacherSalary, StaffSalary:
		return LinkStaff
	default:
		return LinkNone
	}
}

// IsValid reports whether c is a member of the closed enumeration.
func (c Category) IsValid() bool {
	switch c {
	case StudentFees, DonationGeneral, DonationLillah,
		KitchenMarket, TeacherSalary, StaffSalary, Other:
		return true
	default:
		return false
	}
}

type (
	// Date is a calendar date with no time-of-day semantics. The wire format
	// is ISO 2006-01-02; values are normalized to midnight UTC.
	Date struct {
		time.Time
	}

	// Transaction is the atomic ledger entry. ID is assigned by the store on
	// creation and immutable; the ledger core never mutates a transaction.
	Transaction struct {
		ID          string
		Kind        Kind
		Category    Category
		Amount      Money
		Date        Date
		Description string
		StudentID   string
		StaffID     string
	}

	// Student is a roster snapshot entry owned by the students module; the
	// ledger only reads it to resolve target labels.
	Student struct {
		ID         string
		Code       string // unique identifier shown next to the name
		Name       string
		Roll       string
		Class      string
		Residency  string // "Residential" or "Non-Residential"
		FatherName string
		MotherName string
		Mobile     string
		CreatedAt  time.Time
	}

	// Staff is a roster snapshot entry owned by the staff module.
	Staff struct {
		ID          string
		Name        string
		Designation string
		Mobile      string
		Salary      Money
		CreatedAt   time.Time
	}

	// InventoryItem is a kitchen stock record.
	InventoryItem struct {
		ID        string
		Name      string
		Quantity  float64
		Unit      string
		UpdatedAt time.Time
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidKind     = errors.New("invalid transaction kind")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrConflictingLink = errors.New("transaction links both a student and a staff member")
	ErrMissingLink     = errors.New("category requires a roster link")
	ErrEmptyName       = errors.New("empty name")
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// NewDate builds a calendar date normalized to midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the ISO form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Before reports strict calendar ordering.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports strict calendar ordering.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// YearMonth returns the bucket key for the monthly series.
func (d Date) YearMonth() (int, time.Month) {
	return d.Year(), d.Month()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate enforces the entry invariants: a positive amount, a valid kind
// and category, a real date, and at most one roster link which must match
// the category's link contract.
func (t Transaction) Validate() error {
	if t.Kind != Income && t.Kind != Expense {
		return ErrInvalidKind
	}
	if !t.Category.IsValid() {
		return ErrInvalidCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.StudentID != "" && t.StaffID != "" {
		return ErrConflictingLink
	}
	switch t.Category.LinkRequirement() {
	case LinkStudent:
		if t.StudentID == "" {
			return ErrMissingLink
		}
	case LinkStaff:
		if t.StaffID == "" {
			return ErrMissingLink
		}
	}
	return nil
}

func (s Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (s Staff) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (i InventoryItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Quantity < 0 {
		return errors.New("negative quantity")
	}
	return nil
}
