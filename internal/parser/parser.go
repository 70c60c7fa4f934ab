// Package parser validates receipt file names and extracts their parts.
//
// The expected form is:
//
//	<yyyy-mm-dd> - <description> - $<amount>.<ext>
//	<yyyy-mm-dd> - <description> - $<amount>.reimbursed.<ext>
//
// Validation is an ordered chain of rules. The first failing rule decides
// the reported reason and later rules never run, so every invalid name
// carries exactly one message.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/core"
)

// User-facing validation messages. They appear verbatim in invalid-file
// reports and long-standing ledgers match on them, so the exact wording is
// part of the contract.
const (
	MsgFormat           = "File name should have format: yyyy-mm-dd - description - $amount.ext"
	MsgDate             = "Date should be yyyy-mm-dd format"
	MsgAmountPrefix     = "Amount should start with $"
	MsgMissingExtension = "File name is missing extension"
	MsgAmountFormat     = "Amount should be a valid format like $50.00"
)

const (
	segmentSeparator = " - "
	reimbursedMarker = ".reimbursed."
)

var (
	datePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	extensionPattern = regexp.MustCompile(`\.[A-Za-z]{2,5}$`)
)

// parse carries the refined segments between rules.
type parse struct {
	name   string
	date   string
	desc   string
	token  string // amount segment, "$" and extension still attached
	amount decimal.Decimal
}

// A rule inspects the state, refines it on success and returns the failure
// message otherwise.
type rule func(p *parse) string

var chain = []rule{
	splitSegments,
	dateFormat,
	dateCalendar,
	amountPrefix,
	amountExtension,
	amountValue,
}

// Parse runs fileName through the validation chain. The result is
// build-once: either Valid with all parts populated, or invalid with the
// first failing rule's message in Error.
func Parse(fileName string) core.ParsedFilename {
	p := &parse{name: fileName}
	for _, r := range chain {
		if msg := r(p); msg != "" {
			return core.ParsedFilename{Error: msg}
		}
	}
	return core.ParsedFilename{
		Date:          p.date,
		Year:          p.date[:4],
		Description:   p.desc,
		Amount:        p.amount,
		Reimbursement: strings.Contains(fileName, reimbursedMarker),
		Valid:         true,
	}
}

func splitSegments(p *parse) string {
	parts := strings.Split(p.name, segmentSeparator)
	if len(parts) != 3 {
		return MsgFormat
	}
	p.date, p.desc, p.token = parts[0], parts[1], parts[2]
	return ""
}

func dateFormat(p *parse) string {
	if !datePattern.MatchString(p.date) {
		return MsgDate
	}
	return ""
}

// dateCalendar rejects well-formed dates that do not exist, like
// 2021-02-31. time.Date normalizes out-of-range components, so a date is
// real only when it round-trips to the same year, month and day.
func dateCalendar(p *parse) string {
	year, _ := strconv.Atoi(p.date[:4])
	month, _ := strconv.Atoi(p.date[5:7])
	day, _ := strconv.Atoi(p.date[8:10])
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return MsgDate
	}
	return ""
}

func amountPrefix(p *parse) string {
	if !strings.HasPrefix(p.token, "$") {
		return MsgAmountPrefix
	}
	return ""
}

func amountExtension(p *parse) string {
	if !extensionPattern.MatchString(p.token) {
		return MsgMissingExtension
	}
	return ""
}

// amountValue isolates the bare numeric amount and parses it. The
// .reimbursed. marker consumes everything from its first byte onward,
// extension included; otherwise only the trailing extension is dropped.
func amountValue(p *parse) string {
	numeric := strings.TrimPrefix(p.token, "$")
	if i := strings.Index(numeric, reimbursedMarker); i >= 0 {
		numeric = numeric[:i]
	} else {
		numeric = extensionPattern.ReplaceAllString(numeric, "")
	}
	amount, err := core.ParseAmount(numeric)
	if err != nil {
		return MsgAmountFormat
	}
	p.amount = amount
	return ""
}
