package core

import (
	"testing"
	"time"
)

func TestResolveTarget(t *testing.T) {
	students := []Student{
		{ID: "stu-1", Code: "S-001", Name: "Abdul Karim"},
		{ID: "stu-2", Code: "S-002", Name: "Rahim Uddin"},
	}
	staff := []Staff{
		{ID: "stf-1", Name: "Maulana Yusuf"},
	}

	tests := []struct {
		name string
		tx   Transaction
		want string
	}{
		{
			name: "student link",
			tx:   Transaction{StudentID: "stu-2"},
			want: "(Student: Rahim Uddin - S-002)",
		},
		{
			name: "staff link",
			tx:   Transaction{StaffID: "stf-1"},
			want: "(Staff: Maulana Yusuf)",
		},
		{
			name: "no link",
			tx:   Transaction{},
			want: "",
		},
		{
			name: "stale student reference",
			tx:   Transaction{StudentID: "stu-gone"},
			want: "",
		},
		{
			name: "stale staff reference",
			tx:   Transaction{StaffID: "stf-gone"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveTarget(tt.tx, students, staff); got != tt.want {
				t.Errorf("ResolveTarget() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveTargetEmptyRosters(t *testing.T) {
	tx := Transaction{
		Kind:      Income,
		Category:  StudentFees,
		Amount:    Money{Cents: 100},
		Date:      NewDate(2024, time.January, 1),
		StudentID: "stu-1",
	}
	if got := ResolveTarget(tx, nil, nil); got != "" {
		t.Errorf("ResolveTarget with nil rosters = %q, want empty", got)
	}
}
