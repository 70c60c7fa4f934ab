// Package query provides the read-only projections the assistant tools run
// against. Nothing here aggregates: every function only filters or orders
// data the scanner already produced, and none of them modify their inputs.
package query

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/core"
)

type (
	// YearTotals is one year's rolled-up view.
	YearTotals struct {
		Year           string
		Expenses       decimal.Decimal
		Reimbursements decimal.Decimal
		Reimburseable  decimal.Decimal
		Receipts       int
	}

	// CategoryShare is one category's share of a year.
	CategoryShare struct {
		Category       string
		Expenses       decimal.Decimal
		Reimbursements decimal.Decimal
		Receipts       int
	}
)

// SearchReceipts returns the receipts whose description contains keyword,
// case-insensitively, in listing order. A blank keyword matches nothing.
func SearchReceipts(receipts []core.Receipt, keyword string) []core.Receipt {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return nil
	}
	var out []core.Receipt
	for _, r := range receipts {
		if strings.Contains(strings.ToLower(r.Description), needle) {
			out = append(out, r)
		}
	}
	return out
}

// TopExpenses returns the n largest receipts by amount, optionally limited
// to one year. The sort is stable: equal amounts keep listing order.
func TopExpenses(receipts []core.Receipt, n int, year string) []core.Receipt {
	if n <= 0 {
		return nil
	}
	filtered := make([]core.Receipt, 0, len(receipts))
	for _, r := range receipts {
		if year == "" || r.Year == year {
			filtered = append(filtered, r)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Amount.GreaterThan(filtered[j].Amount)
	})
	if len(filtered) > n {
		filtered = filtered[:n]
	}
	return filtered
}

// Unreimbursed returns the receipts not yet reimbursed, in listing order,
// optionally limited to one year and to amounts of at least min.
func Unreimbursed(receipts []core.Receipt, year string, min decimal.Decimal) []core.Receipt {
	var out []core.Receipt
	for _, r := range receipts {
		if r.Reimbursed {
			continue
		}
		if year != "" && r.Year != year {
			continue
		}
		if r.Amount.LessThan(min) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// YearBreakdown returns one year's totals. ok is false for years without
// accepted receipts.
func YearBreakdown(agg core.Aggregation, year string) (YearTotals, bool) {
	expenses, ok := agg.ExpensesByYear[year]
	if !ok {
		return YearTotals{}, false
	}
	reimbursements := agg.ReimbursementsByYear[year]
	return YearTotals{
		Year:           year,
		Expenses:       expenses,
		Reimbursements: reimbursements,
		Reimburseable:  expenses.Sub(reimbursements),
		Receipts:       agg.ReceiptCounts[year],
	}, true
}

// CategoryBreakdown returns one year's category shares in descending
// expense order, ties keeping first-seen order. ok is false for years
// without category data.
func CategoryBreakdown(agg core.Aggregation, year string) ([]CategoryShare, bool) {
	totals := agg.ByCategory[year]
	if totals.Len() == 0 {
		return nil, false
	}
	names := totals.Names()
	sort.SliceStable(names, func(i, j int) bool {
		a, _ := totals.Get(names[i])
		b, _ := totals.Get(names[j])
		return a.Expenses.GreaterThan(b.Expenses)
	})
	shares := make([]CategoryShare, 0, len(names))
	for _, name := range names {
		stat, _ := totals.Get(name)
		shares = append(shares, CategoryShare{
			Category:       name,
			Expenses:       stat.Expenses,
			Reimbursements: stat.Reimbursements,
			Receipts:       stat.Count,
		})
	}
	return shares, true
}

// Categories returns every category seen in any year, ascending.
func Categories(agg core.Aggregation) []string {
	seen := make(map[string]bool)
	var out []string
	for _, totals := range agg.ByCategory {
		for _, name := range totals.Names() {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}
