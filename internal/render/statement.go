// Package render turns extractor output into a print-ready statement
// document with fixed named regions. It performs no aggregation of its own:
// every total shown comes verbatim from the extract.
package render

import (
	"fmt"
	"time"

	"madrasa/internal/core"
	"madrasa/internal/report"
)

// CurrencySymbol prefixes every rendered amount.
const CurrencySymbol = "৳"

// dash is the placeholder for the column an amount does not belong to.
const dash = "-"

// dateDisplayLayout is how calendar dates appear on statements.
const dateDisplayLayout = "02 Jan 2006"

type (
	// Statement is the full printable document.
	Statement struct {
		Header  Header
		Summary Summary
		Rows    []Row
		Footer  Footer
	}

	// Header identifies the institution and the covered range.
	Header struct {
		Title       string
		Subtitle    string
		RangeLabel  string
		GeneratedAt string
	}

	// Summary is the income / expense / net triplet. NetNegative lets the
	// presentation layer pick the sign colour without re-parsing.
	Summary struct {
		TotalIncome  string
		TotalExpense string
		Net          string
		NetNegative  bool
	}

	// Row is one itemized line. Exactly one of Income and Expense carries
	// the amount; the other holds a dash placeholder.
	Row struct {
		Date    string
		Label   string // description, or category when description is empty
		Target  string // resolved roster label, may be empty
		Income  string
		Expense string
	}

	// Footer repeats the range totals under the table.
	Footer struct {
		TotalIncome  string
		TotalExpense string
	}
)

// Options carries the statement chrome supplied by configuration.
type Options struct {
	Title    string
	Subtitle string
	Now      time.Time
}

// BuildStatement renders an extract plus roster snapshots into a statement.
func BuildStatement(ext report.Extract, students []core.Student, staff []core.Staff, opts Options) Statement {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	st := Statement{
		Header: Header{
			Title:    opts.Title,
			Subtitle: opts.Subtitle,
			RangeLabel: fmt.Sprintf("%s to %s",
				formatDate(ext.Start), formatDate(ext.End)),
			GeneratedAt: now.Format("02 Jan 2006 15:04"),
		},
		Summary: Summary{
			TotalIncome:  FormatAmount(ext.TotalIncome),
			TotalExpense: FormatAmount(ext.TotalExpense),
			Net:          FormatAmount(ext.Net),
			NetNegative:  ext.Net.IsNegative(),
		},
		Footer: Footer{
			TotalIncome:  FormatAmount(ext.TotalIncome),
			TotalExpense: FormatAmount(ext.TotalExpense),
		},
	}

	st.Rows = make([]Row, 0, len(ext.Transactions))
	for _, tx := range ext.Transactions {
		row := Row{
			Date:    formatDate(tx.Date),
			Label:   tx.Description,
			Target:  core.ResolveTarget(tx, students, staff),
			Income:  dash,
			Expense: dash,
		}
		if row.Label == "" {
			row.Label = string(tx.Category)
		}
		if tx.Kind == core.Income {
			row.Income = FormatAmount(tx.Amount)
		} else {
			row.Expense = FormatAmount(tx.Amount)
		}
		st.Rows = append(st.Rows, row)
	}

	return st
}

// FormatAmount renders an amount with the currency symbol.
func FormatAmount(m core.Money) string {
	return CurrencySymbol + " " + m.String()
}

func formatDate(d core.Date) string {
	if d.IsZero() {
		return dash
	}
	return d.Format(dateDisplayLayout)
}
