// Package stats derives summary figures from the yearly aggregates.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Stats is the derived summary over all scanned years. Percentages and
// rates are display strings fixed to one decimal with the % sign omitted,
// the average expense is fixed to two decimals, and every zero-denominator
// guard yields the literal "0". MostExpensiveYear is empty when no year has
// receipts.
type Stats struct {
	TotalExpenses       decimal.Decimal
	TotalReimbursements decimal.Decimal
	TotalReimburseable  decimal.Decimal

	ValidFiles            int
	TotalFiles            int
	InvalidFilePercentage string

	AvgExpensePerYear  string
	AvgReceiptsPerYear int

	ReimbursementRate string
	ReimburseableRate string

	MostExpensiveYear string
	ExpensePercentage string
	ReceiptPercentage string
}

// Summarize computes the stats for the given years. years must be sorted
// ascending: the most-expensive fold keeps the first strictly greatest
// value, so that order is what makes ties resolve to the earliest year.
func Summarize(years []string, expensesByYear, reimbursementsByYear map[string]decimal.Decimal, receiptCounts map[string]int, invalidFiles []core.InvalidFile) Stats {
	s := Stats{
		TotalExpenses:       decimal.Zero,
		TotalReimbursements: decimal.Zero,
	}

	for _, year := range years {
		s.TotalExpenses = core.AddRounded(s.TotalExpenses, expensesByYear[year])
		s.TotalReimbursements = core.AddRounded(s.TotalReimbursements, reimbursementsByYear[year])
		s.ValidFiles += receiptCounts[year]
	}
	s.TotalReimburseable = s.TotalExpenses.Sub(s.TotalReimbursements)
	s.TotalFiles = s.ValidFiles + len(invalidFiles)

	s.InvalidFilePercentage = percentage(decimal.NewFromInt(int64(len(invalidFiles))), decimal.NewFromInt(int64(s.TotalFiles)))
	s.ReimbursementRate = percentage(s.TotalReimbursements, s.TotalExpenses)
	s.ReimburseableRate = percentage(s.TotalReimburseable, s.TotalExpenses)

	if len(years) > 0 {
		yearCount := decimal.NewFromInt(int64(len(years)))
		s.AvgExpensePerYear = s.TotalExpenses.Div(yearCount).StringFixed(2)
		s.AvgReceiptsPerYear = int(decimal.NewFromInt(int64(s.ValidFiles)).Div(yearCount).Round(0).IntPart())
	} else {
		s.AvgExpensePerYear = "0"
	}

	for _, year := range years {
		if s.MostExpensiveYear == "" || expensesByYear[year].GreaterThan(expensesByYear[s.MostExpensiveYear]) {
			s.MostExpensiveYear = year
		}
	}
	if s.MostExpensiveYear != "" {
		s.ExpensePercentage = percentage(expensesByYear[s.MostExpensiveYear], s.TotalExpenses)
		s.ReceiptPercentage = percentage(decimal.NewFromInt(int64(receiptCounts[s.MostExpensiveYear])), decimal.NewFromInt(int64(s.ValidFiles)))
	} else {
		s.ExpensePercentage = "0"
		s.ReceiptPercentage = "0"
	}

	return s
}

// percentage renders part/whole as a 1-decimal percent string, "0" when the
// denominator is zero.
func percentage(part, whole decimal.Decimal) string {
	if whole.IsZero() {
		return "0"
	}
	return part.Div(whole).Mul(hundred).StringFixed(1)
}
