package parser

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseValid(t *testing.T) {
	cases := []struct {
		name       string
		in         string
		year       string
		desc       string
		amount     string
		reimbursed bool
	}{
		{
			name:   "plain receipt",
			in:     "2021-01-01 - Josh doctor - $50.00.pdf",
			year:   "2021",
			desc:   "Josh doctor",
			amount: "50.00",
		},
		{
			name:       "reimbursed marker consumes the extension",
			in:         "2022-03-15 - dentist cleaning - $125.50.reimbursed.pdf",
			year:       "2022",
			desc:       "dentist cleaning",
			amount:     "125.50",
			reimbursed: true,
		},
		{
			name:       "marker anywhere in the name flags reimbursement",
			in:         "2021-01-01 - visit.reimbursed.notes - $5.00.pdf",
			year:       "2021",
			desc:       "visit.reimbursed.notes",
			amount:     "5.00",
			reimbursed: true,
		},
		{
			name:   "zero amount parses as valid",
			in:     "2021-01-01 - pharmacy - $0.00.pdf",
			year:   "2021",
			desc:   "pharmacy",
			amount: "0.00",
		},
		{
			name:   "description kept verbatim",
			in:     "2023-07-04 - Josh  doctor visit - $1234.56.jpeg",
			year:   "2023",
			desc:   "Josh  doctor visit",
			amount: "1234.56",
		},
		{
			name:   "leap day",
			in:     "2024-02-29 - vision - $20.00.png",
			year:   "2024",
			desc:   "vision",
			amount: "20.00",
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			if !got.Valid {
				t.Fatalf("expected valid, got error %q", got.Error)
			}
			if got.Error != "" {
				t.Fatalf("valid result should carry no error, got %q", got.Error)
			}
			if got.Year != tt.year {
				t.Errorf("year: expected %q, got %q", tt.year, got.Year)
			}
			if got.Date != tt.in[:10] {
				t.Errorf("date: expected %q, got %q", tt.in[:10], got.Date)
			}
			if got.Description != tt.desc {
				t.Errorf("description: expected %q, got %q", tt.desc, got.Description)
			}
			if want := decimal.RequireFromString(tt.amount); !got.Amount.Equal(want) {
				t.Errorf("amount: expected %s, got %s", want, got.Amount)
			}
			if got.Reimbursement != tt.reimbursed {
				t.Errorf("reimbursement: expected %v, got %v", tt.reimbursed, got.Reimbursement)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []struct {
		name string
		in   string
		msg  string
	}{
		{"no separators", "receipt.pdf", MsgFormat},
		{"one separator", "2021-01-01 - $50.00.pdf", MsgFormat},
		{"three separators", "2021-01-01 - a - b - $50.00.pdf", MsgFormat},
		{"slashes in date", "2021/01/01 - x - $50.00.pdf", MsgDate},
		{"two digit year", "21-01-01 - x - $50.00.pdf", MsgDate},
		{"month out of range", "2021-13-01 - x - $50.00.pdf", MsgDate},
		{"impossible calendar day", "2021-02-31 - x - $50.00.pdf", MsgDate},
		{"non leap year february 29", "2023-02-29 - x - $50.00.pdf", MsgDate},
		{"missing dollar sign", "2021-01-01 - x - 50.00.pdf", MsgAmountPrefix},
		{"no extension", "2021-01-01 - x - $50.00", MsgMissingExtension},
		{"digit in extension", "2021-01-01 - x - $50.00.p1g", MsgMissingExtension},
		{"extension too long", "2021-01-01 - x - $50.00.verylong", MsgMissingExtension},
		{"comma decimal separator", "2021-01-10 - x - $50,00.pdf", MsgAmountFormat},
		{"no decimals", "2021-01-01 - x - $50.pdf", MsgAmountFormat},
		{"one decimal", "2021-01-01 - x - $50.0.pdf", MsgAmountFormat},
		{"three decimals", "2021-01-01 - x - $50.000.pdf", MsgAmountFormat},
		{"empty amount", "2021-01-01 - x - $.pdf", MsgAmountFormat},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			if got.Valid {
				t.Fatalf("expected invalid")
			}
			if got.Error != tt.msg {
				t.Errorf("expected message %q, got %q", tt.msg, got.Error)
			}
		})
	}
}

// The impossible-date rule reuses the format rule's message; ledgers that
// match on the text see a single date failure mode.
func TestParseImpossibleDateReusesFormatMessage(t *testing.T) {
	format := Parse("2021-1-1 - x - $50.00.pdf")
	impossible := Parse("2021-02-31 - x - $50.00.pdf")
	if format.Error != impossible.Error {
		t.Fatalf("expected identical messages, got %q and %q", format.Error, impossible.Error)
	}
}

func TestParseIsPure(t *testing.T) {
	const in = "2021-01-01 - Josh doctor - $50.00.pdf"
	first := Parse(in)
	second := Parse(in)
	if first.Year != second.Year || first.Description != second.Description ||
		!first.Amount.Equal(second.Amount) || first.Reimbursement != second.Reimbursement ||
		first.Valid != second.Valid || first.Error != second.Error {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}
