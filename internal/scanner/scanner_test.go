package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/parser"
)

var listing = []string{
	".DS_Store",
	"2021-01-01 - Josh doctor - $50.00.pdf",
	"2021-02-10 - JOSH dentist - $25.50.reimbursed.pdf",
	"2021-03-05 - pharmacy refill - $10.00.pdf",
	"2022-01-15 - Kaylee glasses - $200.00.pdf",
	"2022-02-02 -   - $10.00.pdf",
	"2021-04-01 - freebie - $0.00.pdf",
	"not-a-receipt.txt",
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func TestAggregateMixedListing(t *testing.T) {
	agg := Aggregate(listing)

	if got := agg.ExpensesByYear["2021"]; !got.Equal(mustDecimal(t, "85.50")) {
		t.Errorf("2021 expenses: expected 85.50, got %s", got)
	}
	if got := agg.ExpensesByYear["2022"]; !got.Equal(mustDecimal(t, "210.00")) {
		t.Errorf("2022 expenses: expected 210.00, got %s", got)
	}
	if got := agg.ReimbursementsByYear["2021"]; !got.Equal(mustDecimal(t, "25.50")) {
		t.Errorf("2021 reimbursements: expected 25.50, got %s", got)
	}
	if _, ok := agg.ReimbursementsByYear["2022"]; ok {
		t.Errorf("2022 should have no reimbursement entry")
	}
	if agg.ReceiptCounts["2021"] != 3 || agg.ReceiptCounts["2022"] != 2 {
		t.Errorf("expected counts 2021:3 2022:2, got %v", agg.ReceiptCounts)
	}
	if years := agg.Years(); len(years) != 2 || years[0] != "2021" || years[1] != "2022" {
		t.Errorf("expected years [2021 2022], got %v", years)
	}

	if len(agg.InvalidFiles) != 1 {
		t.Fatalf("expected 1 invalid file, got %v", agg.InvalidFiles)
	}
	if inv := agg.InvalidFiles[0]; inv.Name != "not-a-receipt.txt" || inv.Reason != parser.MsgFormat {
		t.Errorf("unexpected invalid record %+v", inv)
	}

	// The zero-amount file vanishes: neither aggregated nor invalid.
	if len(agg.Receipts) != 5 {
		t.Fatalf("expected 5 receipts, got %d", len(agg.Receipts))
	}
	first := agg.Receipts[0]
	if first.Date != "2021-01-01" || first.Category != "josh" || first.Reimbursed {
		t.Errorf("unexpected first receipt %+v", first)
	}
}

func TestAggregateCategoryTotals(t *testing.T) {
	agg := Aggregate(listing)

	totals := agg.ByCategory["2021"]
	if totals == nil {
		t.Fatal("expected category totals for 2021")
	}
	names := totals.Names()
	if len(names) != 2 || names[0] != "josh" || names[1] != "pharmacy" {
		t.Fatalf("expected first-seen order [josh pharmacy], got %v", names)
	}

	// "Josh doctor" and "JOSH dentist" collapse into one key.
	josh, _ := totals.Get("josh")
	if josh == nil || josh.Count != 2 {
		t.Fatalf("expected josh count 2, got %+v", josh)
	}
	if !josh.Expenses.Equal(mustDecimal(t, "75.50")) {
		t.Errorf("josh expenses: expected 75.50, got %s", josh.Expenses)
	}
	if !josh.Reimbursements.Equal(mustDecimal(t, "25.50")) {
		t.Errorf("josh reimbursements: expected 25.50, got %s", josh.Reimbursements)
	}

	blank := agg.ByCategory["2022"]
	if _, ok := blank.Get("uncategorized"); !ok {
		t.Errorf("expected blank description to land in uncategorized, got %v", blank.Names())
	}
}

func TestAggregateInvariants(t *testing.T) {
	agg := Aggregate(listing)

	yearSum := decimal.Zero
	for _, v := range agg.ExpensesByYear {
		yearSum = yearSum.Add(v)
	}
	receiptSum := decimal.Zero
	for _, r := range agg.Receipts {
		receiptSum = receiptSum.Add(r.Amount)
	}
	if !yearSum.Equal(receiptSum) {
		t.Errorf("year totals %s do not match receipt sum %s", yearSum, receiptSum)
	}

	for year, totals := range agg.ByCategory {
		catSum := decimal.Zero
		for _, name := range totals.Names() {
			stat, _ := totals.Get(name)
			catSum = catSum.Add(stat.Expenses)
		}
		if !catSum.Equal(agg.ExpensesByYear[year]) {
			t.Errorf("%s: category sum %s does not match year expenses %s", year, catSum, agg.ExpensesByYear[year])
		}
	}
}

func TestAggregateEmptyListing(t *testing.T) {
	agg := Aggregate(nil)
	if len(agg.ExpensesByYear) != 0 || len(agg.ReceiptCounts) != 0 {
		t.Errorf("expected empty aggregates, got %+v", agg)
	}
	if len(agg.InvalidFiles) != 0 || len(agg.Receipts) != 0 {
		t.Errorf("expected no records, got %+v", agg)
	}
}

func TestAggregateHiddenNames(t *testing.T) {
	agg := Aggregate([]string{".gitkeep", ".2021-01-01 - hidden - $5.00.pdf"})
	if len(agg.InvalidFiles) != 0 {
		t.Errorf("hidden names must not be reported invalid, got %v", agg.InvalidFiles)
	}
	if len(agg.Receipts) != 0 {
		t.Errorf("hidden names must not aggregate, got %v", agg.Receipts)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"2021-01-01 - Josh doctor - $50.00.pdf",
		"2021-06-01 - pharmacy - $12.34.reimbursed.png",
		".hidden",
		"broken name.pdf",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	agg, err := Scan(dir)
	if err != nil {
		t.Fatalf("expected scan to succeed, got %v", err)
	}
	if got := agg.ExpensesByYear["2021"]; !got.Equal(mustDecimal(t, "62.34")) {
		t.Errorf("expected 62.34, got %s", got)
	}
	if len(agg.InvalidFiles) != 1 || agg.InvalidFiles[0].Name != "broken name.pdf" {
		t.Errorf("unexpected invalid files %v", agg.InvalidFiles)
	}
}

func TestScanMissingDirectory(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	var accessErr *DirectoryAccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("expected DirectoryAccessError, got %T", err)
	}
	if accessErr.Unwrap() == nil {
		t.Error("expected wrapped cause")
	}
}
