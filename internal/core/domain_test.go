package core

import (
	"errors"
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		Kind:     Income,
		Category: DonationGeneral,
		Amount:   Money{Cents: 150000},
		Date:     NewDate(2024, time.January, 15),
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{
			name:   "valid donation",
			mutate: func(*Transaction) {},
		},
		{
			name: "valid student fee",
			mutate: func(tx *Transaction) {
				tx.Category = StudentFees
				tx.StudentID = "stu-1"
			},
		},
		{
			name: "valid salary as expense",
			mutate: func(tx *Transaction) {
				tx.Kind = Expense
				tx.Category = TeacherSalary
				tx.StaffID = "stf-1"
			},
		},
		{
			name:    "unknown kind",
			mutate:  func(tx *Transaction) { tx.Kind = "Transfer" },
			wantErr: ErrInvalidKind,
		},
		{
			name:    "unknown category",
			mutate:  func(tx *Transaction) { tx.Category = "Utilities" },
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "zero amount",
			mutate:  func(tx *Transaction) { tx.Amount = Money{} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(tx *Transaction) { tx.Amount = Money{Cents: -100} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "zero date",
			mutate:  func(tx *Transaction) { tx.Date = Date{} },
			wantErr: ErrInvalidDate,
		},
		{
			name: "both links set",
			mutate: func(tx *Transaction) {
				tx.StudentID = "stu-1"
				tx.StaffID = "stf-1"
			},
			wantErr: ErrConflictingLink,
		},
		{
			name:    "student fee without student",
			mutate:  func(tx *Transaction) { tx.Category = StudentFees },
			wantErr: ErrMissingLink,
		},
		{
			name:    "staff salary without staff",
			mutate:  func(tx *Transaction) { tx.Category = StaffSalary },
			wantErr: ErrMissingLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Errorf("round trip = %q, want 2024-02-29", d.String())
	}

	for _, bad := range []string{"", "29-02-2024", "2024-13-01", "2024-02-30", "yesterday"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestDateOrdering(t *testing.T) {
	jan := NewDate(2024, time.January, 31)
	feb := NewDate(2024, time.February, 1)

	if !jan.Before(feb) || feb.Before(jan) {
		t.Errorf("Before: want jan < feb")
	}
	if !feb.After(jan) || jan.After(feb) {
		t.Errorf("After: want feb > jan")
	}
	if jan.Before(jan) || jan.After(jan) {
		t.Errorf("equal dates must not order before or after each other")
	}
}

func TestCategoryLinkRequirement(t *testing.T) {
	tests := []struct {
		cat  Category
		want LinkRequirement
	}{
		{StudentFees, LinkStudent},
		{TeacherSalary, LinkStaff},
		{StaffSalary, LinkStaff},
		{DonationGeneral, LinkNone},
		{DonationLillah, LinkNone},
		{KitchenMarket, LinkNone},
		{Other, LinkNone},
	}
	for _, tt := range tests {
		if got := tt.cat.LinkRequirement(); got != tt.want {
			t.Errorf("%s.LinkRequirement() = %v, want %v", tt.cat, got, tt.want)
		}
	}
}

func TestCategoriesAreValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.IsValid() {
			t.Errorf("Categories() contains invalid member %q", c)
		}
	}
	if Category("Utilities").IsValid() {
		t.Errorf("unknown category reported valid")
	}
}
