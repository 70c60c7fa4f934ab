// Package render prints the analyzer report to a terminal: a per-year tree
// with optional category children, bar charts for expenses and
// reimbursements, the summary block and the invalid-file listing.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/core"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/report"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/stats"
)

const defaultChartWidth = 40

// Options control presentation. ChartWidth is the bar length of the largest
// value; every other bar scales against it.
type Options struct {
	ChartWidth int
	Categories bool
	NoColor    bool
}

// Renderer writes report sections to a single writer. Print errors are not
// tracked; terminal output is best effort.
type Renderer struct {
	w    io.Writer
	opts Options

	header  *color.Color
	strong  *color.Color
	expense *color.Color
	reimb   *color.Color
	bad     *color.Color
}

func New(w io.Writer, opts Options) *Renderer {
	if opts.ChartWidth <= 0 {
		opts.ChartWidth = defaultChartWidth
	}
	r := &Renderer{
		w:       w,
		opts:    opts,
		header:  color.New(color.Bold, color.Underline),
		strong:  color.New(color.Bold),
		expense: color.New(color.FgGreen),
		reimb:   color.New(color.FgCyan),
		bad:     color.New(color.FgRed),
	}
	if opts.NoColor {
		for _, c := range []*color.Color{r.header, r.strong, r.expense, r.reimb, r.bad} {
			c.DisableColor()
		}
	}
	return r
}

// Report prints every section in order: tree, charts, summary, invalid
// files. years must be ascending; the summary map comes from
// report.BuildYearly over the same years.
func (r *Renderer) Report(years []string, summary map[string]report.YearSummary, agg core.Aggregation, st stats.Stats) {
	r.Tree(years, summary)
	r.Charts(years, agg)
	r.Summary(st)
	r.InvalidFiles(agg.InvalidFiles)
}

// Tree prints the per-year rows with branch glyphs, category children
// indented one level under their year.
func (r *Renderer) Tree(years []string, summary map[string]report.YearSummary) {
	r.header.Fprintln(r.w, "Expenses by year")
	rows := report.RowOrder(years)
	for i, key := range rows {
		row := summary[key]
		last := i == len(rows)-1
		branch := "├──"
		if last {
			branch = "└──"
		}
		line := fmt.Sprintf("%s: %s expenses | %s reimbursed (%d receipts)",
			key, row.Expenses, row.Reimbursements, row.Receipts)
		if key == report.TotalRow {
			fmt.Fprintf(r.w, "%s %s\n", branch, r.strong.Sprint(line))
		} else {
			fmt.Fprintf(r.w, "%s %s\n", branch, line)
		}
		if !r.opts.Categories {
			continue
		}
		prefix := "│   "
		if last {
			prefix = "    "
		}
		for j, cat := range row.ByCategory {
			childBranch := "├──"
			if j == len(row.ByCategory)-1 {
				childBranch = "└──"
			}
			fmt.Fprintf(r.w, "%s%s %s: %s expenses | %s reimbursed (%d receipts)\n",
				prefix, childBranch, cat.Name, cat.Expenses, cat.Reimbursements, cat.Receipts)
		}
	}
	fmt.Fprintln(r.w)
}

// Charts prints one bar chart for expenses and one for reimbursements,
// both scaled against the largest expense value so the two are comparable.
func (r *Renderer) Charts(years []string, agg core.Aggregation) {
	if len(years) == 0 {
		return
	}
	max := decimal.Zero
	for _, year := range years {
		if v := agg.ExpensesByYear[year]; v.GreaterThan(max) {
			max = v
		}
		if v := agg.ReimbursementsByYear[year]; v.GreaterThan(max) {
			max = v
		}
	}
	r.chart("Expenses", years, agg.ExpensesByYear, max, r.expense)
	r.chart("Reimbursements", years, agg.ReimbursementsByYear, max, r.reimb)
}

func (r *Renderer) chart(title string, years []string, values map[string]decimal.Decimal, max decimal.Decimal, c *color.Color) {
	r.header.Fprintln(r.w, title+" by year")
	for _, year := range years {
		v := values[year]
		bar := strings.Repeat("█", barWidth(v, max, r.opts.ChartWidth))
		fmt.Fprintf(r.w, "%s %s %s\n", year, c.Sprintf("%-*s", r.opts.ChartWidth, bar), core.FormatUSD(v))
	}
	fmt.Fprintln(r.w)
}

// Summary prints the derived stats block. Percent values arrive bare from
// the stats package; the sign is added here.
func (r *Renderer) Summary(st stats.Stats) {
	r.header.Fprintln(r.w, "Summary")
	fmt.Fprintf(r.w, "Total expenses:      %s\n", core.FormatUSD(st.TotalExpenses))
	fmt.Fprintf(r.w, "Total reimbursed:    %s\n", core.FormatUSD(st.TotalReimbursements))
	fmt.Fprintf(r.w, "Total reimburseable: %s (%s%% of expenses)\n",
		core.FormatUSD(st.TotalReimburseable), st.ReimburseableRate)
	fmt.Fprintf(r.w, "Files:               %d valid of %d (%s%% invalid)\n",
		st.ValidFiles, st.TotalFiles, st.InvalidFilePercentage)
	fmt.Fprintf(r.w, "Average per year:    $%s (%d receipts)\n",
		st.AvgExpensePerYear, st.AvgReceiptsPerYear)
	if st.MostExpensiveYear != "" {
		fmt.Fprintf(r.w, "Most expensive year: %s (%s%% of expenses, %s%% of receipts)\n",
			st.MostExpensiveYear, st.ExpensePercentage, st.ReceiptPercentage)
	}
	fmt.Fprintln(r.w)
}

// InvalidFiles prints the skipped names with their reasons. Nothing is
// printed when every file was accepted.
func (r *Renderer) InvalidFiles(invalid []core.InvalidFile) {
	if len(invalid) == 0 {
		return
	}
	r.header.Fprintln(r.w, "Invalid files")
	for _, f := range invalid {
		r.bad.Fprintf(r.w, "✗ %s: %s\n", f.Name, f.Reason)
	}
	fmt.Fprintln(r.w)
}

// barWidth scales value against max into a bar of at most width cells.
// Positive values always get at least one cell so small amounts stay
// visible next to large ones.
func barWidth(value, max decimal.Decimal, width int) int {
	if max.IsZero() || !value.IsPositive() {
		return 0
	}
	w := int(value.Mul(decimal.NewFromInt(int64(width))).Div(max).IntPart())
	if w < 1 {
		w = 1
	}
	if w > width {
		w = width
	}
	return w
}
