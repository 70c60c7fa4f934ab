package assistant

import (
	"fmt"
	"strings"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/history"
)

func buildPlannerPrompt(question string, recent []history.Message, scratchpad []string) string {
	historyLines := make([]string, 0, len(recent))
	for _, msg := range recent {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		historyLines = append(historyLines, fmt.Sprintf("%s: %s", strings.TrimSpace(msg.Role), content))
	}
	if len(historyLines) == 0 {
		historyLines = append(historyLines, "(empty)")
	}
	if len(scratchpad) == 0 {
		scratchpad = append(scratchpad, "(no tool outputs yet)")
	}

	return fmt.Sprintf(`You are a planning component for an HSA receipt analysis assistant.
Every amount comes from receipt filenames that were already scanned; tools are read-only.
Return ONLY a valid JSON object with one step.
Schema:
{"type":"tool","tool":"search_receipts","input":{"text":"...","unreimbursed_only":false}}
or {"type":"tool","tool":"top_expenses","input":{"limit":5,"year":"2023"}}
or {"type":"tool","tool":"unreimbursed","input":{"year":"2023","min_amount":"25.00"}}
or {"type":"tool","tool":"year_breakdown","input":{"year":"2023"}}
or {"type":"tool","tool":"category_breakdown","input":{"year":"2023"}}
or {"type":"tool","tool":"list_categories","input":{}}
or {"type":"final","answer":"..."}
Omit "year" to cover every year. Quote dollar amounts exactly as the tools report them.

Recent conversation:
%s

Scratchpad with previous tool outputs:
%s

Current user question:
%s
`, strings.Join(historyLines, "\n"), strings.Join(scratchpad, "\n"), question)
}

func buildRepairPrompt(raw string) string {
	return fmt.Sprintf(`Convert the following text into a valid JSON object for this schema:
{"type":"tool","tool":"search_receipts|top_expenses|unreimbursed|year_breakdown|category_breakdown|list_categories","input":{...}}
or {"type":"final","answer":"..."}
Return only JSON.
Text:
%s`, raw)
}
