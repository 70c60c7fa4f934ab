// Package scanner lists a receipts directory and folds the entry names into
// per-year and per-category aggregates.
package scanner

import (
	"fmt"
	"os"
	"strings"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/core"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/parser"
)

// DirectoryAccessError reports a receipts directory that could not be
// listed. It is fatal: no partial aggregation is produced.
type DirectoryAccessError struct {
	Path string
	Err  error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("failed to read receipts directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error { return e.Err }

// Scan lists dir and aggregates every entry name. The listing is the only
// I/O; everything after it is a pure fold over the names.
func Scan(dir string) (core.Aggregation, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return core.Aggregation{}, &DirectoryAccessError{Path: dir, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return Aggregate(names), nil
}

// Aggregate folds names, in the given order, into a fresh Aggregation.
// Hidden names are skipped, invalid names are recorded with their reason,
// and valid names with a non-positive amount are dropped without a trace.
// An accepted receipt moves its year's expenses, its category's expenses
// and both counts together; a reimbursed receipt additionally moves both
// reimbursement sums. Every running sum is rounded to cents after each
// addition.
func Aggregate(names []string) core.Aggregation {
	agg := core.NewAggregation()
	for _, name := range names {
		if strings.HasPrefix(name, ".") {
			continue
		}
		parsed := parser.Parse(name)
		if !parsed.Valid {
			agg.InvalidFiles = append(agg.InvalidFiles, core.InvalidFile{
				Name:   name,
				Reason: parsed.Error,
			})
			continue
		}
		if !parsed.Amount.IsPositive() {
			continue
		}

		year := parsed.Year
		category := core.CategoryOf(parsed.Description)

		agg.ExpensesByYear[year] = core.AddRounded(agg.ExpensesByYear[year], parsed.Amount)
		agg.ReceiptCounts[year]++

		totals := agg.ByCategory[year]
		if totals == nil {
			totals = core.NewCategoryTotals()
			agg.ByCategory[year] = totals
		}
		stat := totals.Stat(category)
		stat.Expenses = core.AddRounded(stat.Expenses, parsed.Amount)
		stat.Count++

		if parsed.Reimbursement {
			agg.ReimbursementsByYear[year] = core.AddRounded(agg.ReimbursementsByYear[year], parsed.Amount)
			stat.Reimbursements = core.AddRounded(stat.Reimbursements, parsed.Amount)
		}

		agg.Receipts = append(agg.Receipts, core.Receipt{
			Date:        parsed.Date,
			Year:        year,
			Description: parsed.Description,
			Amount:      parsed.Amount,
			Reimbursed:  parsed.Reimbursement,
			Category:    category,
		})
	}
	return agg
}
