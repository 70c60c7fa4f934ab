package sheets

import (
	"context"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/report"
)

// SummaryRow is one exported line of the yearly summary. Amounts are the
// report's dollar strings so the sheet matches the terminal output.
type SummaryRow struct {
	Year           string
	Expenses       string
	Reimbursements string
	Receipts       int
}

// SummaryWriter exports the yearly summary to an external sheet.
type SummaryWriter interface {
	WriteSummary(ctx context.Context, rows []SummaryRow) error
}

// BuildRows flattens the report into export rows, keeping the report's row
// order. Rows for keys missing from the report are skipped.
func BuildRows(order []string, summaries map[string]report.YearSummary) []SummaryRow {
	rows := make([]SummaryRow, 0, len(order))
	for _, key := range order {
		summary, ok := summaries[key]
		if !ok {
			continue
		}
		rows = append(rows, SummaryRow{
			Year:           key,
			Expenses:       summary.Expenses,
			Reimbursements: summary.Reimbursements,
			Receipts:       summary.Receipts,
		})
	}
	return rows
}
