package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Uncategorized is the category assigned to receipts whose description
// yields no usable first word.
const Uncategorized = "uncategorized"

type (
	// ParsedFilename is the outcome of running one file name through the
	// validation chain. Valid and Error are mutually exclusive: an invalid
	// result carries the user-facing reason and zero values everywhere else.
	ParsedFilename struct {
		Date          string // yyyy-mm-dd
		Year          string
		Description   string
		Amount        decimal.Decimal
		Reimbursement bool
		Valid         bool
		Error         string
	}

	// Receipt is one accepted file, fully derived. Amount is always
	// positive with two decimals.
	Receipt struct {
		Date        string // yyyy-mm-dd
		Year        string
		Description string
		Amount      decimal.Decimal
		Reimbursed  bool
		Category    string
	}

	// InvalidFile records a file name that failed validation together with
	// the reason shown to the user. Invalid files are reported, never
	// aggregated.
	InvalidFile struct {
		Name   string
		Reason string
	}
)

// CategoryOf derives a receipt's category from its description: the first
// space-delimited word of the trimmed text, lowercased. Blank descriptions
// fall back to Uncategorized.
func CategoryOf(description string) string {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return Uncategorized
	}
	return strings.ToLower(strings.Split(trimmed, " ")[0])
}
