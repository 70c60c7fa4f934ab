package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryStat accumulates the totals for one category within one year.
type CategoryStat struct {
	Expenses       decimal.Decimal
	Reimbursements decimal.Decimal
	Count          int
}

// CategoryTotals maps category names to their stats while remembering
// first-seen order. Downstream sorting is stable, so that order decides ties
// between categories with equal expenses.
type CategoryTotals struct {
	order []string
	stats map[string]*CategoryStat
}

func NewCategoryTotals() *CategoryTotals {
	return &CategoryTotals{stats: make(map[string]*CategoryStat)}
}

// Stat returns the bucket for name, creating it on first use.
func (ct *CategoryTotals) Stat(name string) *CategoryStat {
	if s, ok := ct.stats[name]; ok {
		return s
	}
	s := &CategoryStat{Expenses: decimal.Zero, Reimbursements: decimal.Zero}
	ct.stats[name] = s
	ct.order = append(ct.order, name)
	return s
}

// Get returns the bucket for name without creating it.
func (ct *CategoryTotals) Get(name string) (*CategoryStat, bool) {
	s, ok := ct.stats[name]
	return s, ok
}

// Names returns the category names in first-seen order.
func (ct *CategoryTotals) Names() []string {
	return append([]string(nil), ct.order...)
}

func (ct *CategoryTotals) Len() int {
	if ct == nil {
		return 0
	}
	return len(ct.order)
}

// Aggregation is the complete outcome of scanning one receipts directory.
// Years appear in the maps only when at least one receipt was accepted for
// them; invalid files are collected separately and receipts keep directory
// listing order.
type Aggregation struct {
	ExpensesByYear       map[string]decimal.Decimal
	ReimbursementsByYear map[string]decimal.Decimal
	ReceiptCounts        map[string]int
	ByCategory           map[string]*CategoryTotals
	InvalidFiles         []InvalidFile
	Receipts             []Receipt
}

func NewAggregation() Aggregation {
	return Aggregation{
		ExpensesByYear:       make(map[string]decimal.Decimal),
		ReimbursementsByYear: make(map[string]decimal.Decimal),
		ReceiptCounts:        make(map[string]int),
		ByCategory:           make(map[string]*CategoryTotals),
	}
}

// Years returns every year with accepted receipts, ascending. Callers that
// break most-expensive ties toward the earliest year rely on this order.
func (a Aggregation) Years() []string {
	years := make([]string, 0, len(a.ExpensesByYear))
	for y := range a.ExpensesByYear {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}
