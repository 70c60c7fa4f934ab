package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/core"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/query"
)

// Tool names the planner may request. Every tool is read-only over the
// aggregation snapshot.
const (
	toolSearchReceipts    = "search_receipts"
	toolTopExpenses       = "top_expenses"
	toolUnreimbursed      = "unreimbursed"
	toolYearBreakdown     = "year_breakdown"
	toolCategoryBreakdown = "category_breakdown"
	toolListCategories    = "list_categories"
)

func (a *Assistant) executeTool(ctx context.Context, step planStep, fallbackQuestion string) (ToolEvent, error) {
	if err := ctx.Err(); err != nil {
		return ToolEvent{}, err
	}

	switch step.Tool {
	case toolSearchReceipts:
		keyword := strings.TrimSpace(stringInput(step.Input, "text", fallbackQuestion))
		matches := query.SearchReceipts(a.agg.Receipts, keyword)
		if boolInput(step.Input, "unreimbursed_only", false) {
			kept := matches[:0]
			for _, r := range matches {
				if !r.Reimbursed {
					kept = append(kept, r)
				}
			}
			matches = kept
		}
		payload, _ := json.Marshal(map[string]interface{}{
			"text":     keyword,
			"matches":  receiptPayloads(matches),
			"count":    len(matches),
			"expenses": core.FormatUSD(sumAmounts(matches)),
		})
		return ToolEvent{Tool: toolSearchReceipts, Status: "ok", Output: string(payload)}, nil

	case toolTopExpenses:
		limit := intInput(step.Input, "limit", 5)
		year := strings.TrimSpace(stringInput(step.Input, "year", ""))
		receipts := query.TopExpenses(a.agg.Receipts, limit, year)
		payload, _ := json.Marshal(map[string]interface{}{
			"limit":    limit,
			"year":     year,
			"receipts": receiptPayloads(receipts),
		})
		return ToolEvent{Tool: toolTopExpenses, Status: "ok", Output: string(payload)}, nil

	case toolUnreimbursed:
		year := strings.TrimSpace(stringInput(step.Input, "year", ""))
		min := decimal.Zero
		if minRaw := strings.TrimSpace(stringInput(step.Input, "min_amount", "")); minRaw != "" {
			parsed, err := decimal.NewFromString(minRaw)
			if err != nil {
				return ToolEvent{}, fmt.Errorf("unreimbursed min_amount: %w", err)
			}
			min = parsed
		}
		receipts := query.Unreimbursed(a.agg.Receipts, year, min)
		payload, _ := json.Marshal(map[string]interface{}{
			"year":     year,
			"receipts": receiptPayloads(receipts),
			"count":    len(receipts),
			"expenses": core.FormatUSD(sumAmounts(receipts)),
		})
		return ToolEvent{Tool: toolUnreimbursed, Status: "ok", Output: string(payload)}, nil

	case toolYearBreakdown:
		year := strings.TrimSpace(stringInput(step.Input, "year", ""))
		if year != "" {
			totals, ok := query.YearBreakdown(a.agg, year)
			if !ok {
				payload, _ := json.Marshal(map[string]interface{}{"year": year, "found": false})
				return ToolEvent{Tool: toolYearBreakdown, Status: "ok", Output: string(payload)}, nil
			}
			payload, _ := json.Marshal(yearPayload(totals))
			return ToolEvent{Tool: toolYearBreakdown, Status: "ok", Output: string(payload)}, nil
		}
		years := a.agg.Years()
		rows := make([]map[string]interface{}, 0, len(years))
		for _, y := range years {
			if totals, ok := query.YearBreakdown(a.agg, y); ok {
				rows = append(rows, yearPayload(totals))
			}
		}
		payload, _ := json.Marshal(map[string]interface{}{"years": rows})
		return ToolEvent{Tool: toolYearBreakdown, Status: "ok", Output: string(payload)}, nil

	case toolCategoryBreakdown:
		year := strings.TrimSpace(stringInput(step.Input, "year", ""))
		if year != "" {
			shares, ok := query.CategoryBreakdown(a.agg, year)
			if !ok {
				payload, _ := json.Marshal(map[string]interface{}{"year": year, "found": false})
				return ToolEvent{Tool: toolCategoryBreakdown, Status: "ok", Output: string(payload)}, nil
			}
			payload, _ := json.Marshal(map[string]interface{}{
				"year":       year,
				"categories": sharePayloads(shares),
			})
			return ToolEvent{Tool: toolCategoryBreakdown, Status: "ok", Output: string(payload)}, nil
		}
		byYear := make(map[string][]map[string]interface{})
		for _, y := range a.agg.Years() {
			if shares, ok := query.CategoryBreakdown(a.agg, y); ok {
				byYear[y] = sharePayloads(shares)
			}
		}
		payload, _ := json.Marshal(map[string]interface{}{"by_year": byYear})
		return ToolEvent{Tool: toolCategoryBreakdown, Status: "ok", Output: string(payload)}, nil

	case toolListCategories:
		payload, _ := json.Marshal(map[string]interface{}{
			"categories": query.Categories(a.agg),
		})
		return ToolEvent{Tool: toolListCategories, Status: "ok", Output: string(payload)}, nil

	default:
		return ToolEvent{}, fmt.Errorf("unsupported tool: %s", step.Tool)
	}
}

func receiptPayloads(receipts []core.Receipt) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, map[string]interface{}{
			"date":        r.Date,
			"description": r.Description,
			"amount":      core.FormatUSD(r.Amount),
			"category":    r.Category,
			"reimbursed":  r.Reimbursed,
		})
	}
	return out
}

func yearPayload(totals query.YearTotals) map[string]interface{} {
	return map[string]interface{}{
		"year":           totals.Year,
		"expenses":       core.FormatUSD(totals.Expenses),
		"reimbursements": core.FormatUSD(totals.Reimbursements),
		"reimburseable":  core.FormatUSD(totals.Reimburseable),
		"receipts":       totals.Receipts,
		"found":          true,
	}
}

func sharePayloads(shares []query.CategoryShare) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(shares))
	for _, share := range shares {
		out = append(out, map[string]interface{}{
			"category":       share.Category,
			"expenses":       core.FormatUSD(share.Expenses),
			"reimbursements": core.FormatUSD(share.Reimbursements),
			"receipts":       share.Receipts,
		})
	}
	return out
}

func sumAmounts(receipts []core.Receipt) decimal.Decimal {
	total := decimal.Zero
	for _, r := range receipts {
		total = core.AddRounded(total, r.Amount)
	}
	return total
}

func stringInput(input map[string]interface{}, key, fallback string) string {
	if input == nil {
		return fallback
	}
	value, ok := input[key]
	if !ok || value == nil {
		return fallback
	}
	switch typed := value.(type) {
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

func intInput(input map[string]interface{}, key string, fallback int) int {
	if input == nil {
		return fallback
	}
	value, ok := input[key]
	if !ok || value == nil {
		return fallback
	}
	switch typed := value.(type) {
	case float64:
		return int(typed)
	case int:
		return typed
	case int64:
		return int(typed)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return fallback
		}
		return n
	default:
		return fallback
	}
}

func boolInput(input map[string]interface{}, key string, fallback bool) bool {
	if input == nil {
		return fallback
	}
	value, ok := input[key]
	if !ok || value == nil {
		return fallback
	}
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}
