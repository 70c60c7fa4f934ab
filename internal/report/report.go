// Package report shapes the yearly aggregates into the display-ready
// summary consumed by the renderer and the sheet export.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/core"
)

// TotalRow is the key of the synthetic grand-total row.
const TotalRow = "Total"

type (
	// CategoryRow is one category's formatted share of a year.
	CategoryRow struct {
		Name           string
		Expenses       string
		Reimbursements string
		Receipts       int
	}

	// YearSummary is one year's formatted totals. ByCategory is nil for
	// years without category data and always nil on the total row.
	YearSummary struct {
		Expenses       string
		Reimbursements string
		Receipts       int
		ByCategory     []CategoryRow
	}
)

// BuildYearly formats the per-year aggregates plus the total row. Currency
// strings carry exactly two decimals, rounding half away from zero at this
// boundary. byCategory may be nil.
func BuildYearly(years []string, expensesByYear, reimbursementsByYear map[string]decimal.Decimal, receiptCounts map[string]int, byCategory map[string]*core.CategoryTotals) map[string]YearSummary {
	result := make(map[string]YearSummary, len(years)+1)
	for _, year := range years {
		summary := YearSummary{
			Expenses:       core.FormatUSD(expensesByYear[year]),
			Reimbursements: core.FormatUSD(reimbursementsByYear[year]),
			Receipts:       receiptCounts[year],
		}
		if totals := byCategory[year]; totals.Len() > 0 {
			summary.ByCategory = categoryRows(totals)
		}
		result[year] = summary
	}

	// The total row re-sums the yearly values rather than reading a
	// separately tracked grand total, and never carries categories.
	totalExpenses, totalReimbursements := decimal.Zero, decimal.Zero
	totalReceipts := 0
	for _, year := range years {
		totalExpenses = core.AddRounded(totalExpenses, expensesByYear[year])
		totalReimbursements = core.AddRounded(totalReimbursements, reimbursementsByYear[year])
		totalReceipts += receiptCounts[year]
	}
	result[TotalRow] = YearSummary{
		Expenses:       core.FormatUSD(totalExpenses),
		Reimbursements: core.FormatUSD(totalReimbursements),
		Receipts:       totalReceipts,
	}
	return result
}

// RowOrder returns the report keys in render order: the given years
// followed by the total row. The input slice is not modified.
func RowOrder(years []string) []string {
	return append(append([]string(nil), years...), TotalRow)
}

// categoryRows renders the categories sorted by descending raw expenses.
// The sort is stable, so categories with equal expenses keep their
// first-seen order.
func categoryRows(totals *core.CategoryTotals) []CategoryRow {
	names := totals.Names()
	sort.SliceStable(names, func(i, j int) bool {
		a, _ := totals.Get(names[i])
		b, _ := totals.Get(names[j])
		return a.Expenses.GreaterThan(b.Expenses)
	})
	rows := make([]CategoryRow, 0, len(names))
	for _, name := range names {
		stat, _ := totals.Get(name)
		rows = append(rows, CategoryRow{
			Name:           name,
			Expenses:       core.FormatUSD(stat.Expenses),
			Reimbursements: core.FormatUSD(stat.Reimbursements),
			Receipts:       stat.Count,
		})
	}
	return rows
}
