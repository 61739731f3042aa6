package core

import "fmt"

// ResolveTarget maps a transaction's roster link to a display label using
// the given roster snapshots. A stale or absent reference resolves to the
// empty label; this function never fails.
func ResolveTarget(tx Transaction, students []Student, staff []Staff) string {
	if tx.StudentID != "" {
		for _, s := range students {
			if s.ID == tx.StudentID {
				return fmt.Sprintf("(Student: %s - %s)", s.Name, s.Code)
			}
		}
		return ""
	}
	if tx.StaffID != "" {
		for _, s := range staff {
			if s.ID == tx.StaffID {
				return fmt.Sprintf("(Staff: %s)", s.Name)
			}
		}
		return ""
	}
	return ""
}
