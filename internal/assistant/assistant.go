// Package assistant runs the chat agent: a planner loop over an LLM that
// answers questions about scanned receipts through read-only query tools.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/core"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/history"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/log"
)

type llmClient interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type messageStore interface {
	EnsureConversation(ctx context.Context, conversationID string) error
	NextTurn(ctx context.Context, conversationID string) (int, error)
	AppendMessage(ctx context.Context, message history.Message) error
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]history.Message, error)
}

// Limits bounds one Ask call. Zero values take the defaults applied in New.
type Limits struct {
	MaxIterations  int
	Timeout        time.Duration
	PlannerTimeout time.Duration
	ToolTimeout    time.Duration
	HistoryWindow  int
}

// ToolEvent records one tool execution inside the planner loop.
type ToolEvent struct {
	Tool   string
	Status string
	Output string
}

// Result is the outcome of one Ask call.
type Result struct {
	ConversationID string
	Answer         string
	Iterations     int
	ToolsInvoked   []string
	FallbackReason string
	ToolEvents     []ToolEvent
}

type planStep struct {
	Type   string                 `json:"type"`
	Tool   string                 `json:"tool"`
	Input  map[string]interface{} `json:"input"`
	Answer string                 `json:"answer"`
}

// Assistant answers questions about one scanned receipts directory. The
// aggregation is a snapshot taken at startup; tools never touch the disk.
type Assistant struct {
	llm    llmClient
	store  messageStore
	agg    core.Aggregation
	limits Limits
	logger *log.Logger
}

func New(llm llmClient, store messageStore, agg core.Aggregation, limits Limits, logger *log.Logger) *Assistant {
	if limits.MaxIterations <= 0 {
		limits.MaxIterations = 6
	}
	if limits.Timeout <= 0 {
		limits.Timeout = 90 * time.Second
	}
	if limits.PlannerTimeout <= 0 {
		limits.PlannerTimeout = 20 * time.Second
	}
	if limits.ToolTimeout <= 0 {
		limits.ToolTimeout = 30 * time.Second
	}
	if limits.HistoryWindow <= 0 {
		limits.HistoryWindow = 12
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentAssistant)
	}

	return &Assistant{
		llm:    llm,
		store:  store,
		agg:    agg,
		limits: limits,
		logger: logger,
	}
}

// Ask runs the planner loop for one user question and persists the turn.
// A blank conversationID starts a new conversation.
func (a *Assistant) Ask(ctx context.Context, conversationID, question string) (*Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("question is required")
	}

	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	if err := a.store.EnsureConversation(ctx, conversationID); err != nil {
		return nil, fmt.Errorf("ensure conversation: %w", err)
	}

	recent, err := a.store.RecentMessages(ctx, conversationID, a.limits.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("load recent messages: %w", err)
	}

	turn, err := a.store.NextTurn(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("next turn: %w", err)
	}

	if err := a.store.AppendMessage(ctx, history.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           history.RoleUser,
		Content:        question,
		UserTurn:       turn,
		CreatedAt:      time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	loopCtx, cancel := context.WithTimeout(ctx, a.limits.Timeout)
	defer cancel()

	scratchpad := make([]string, 0, a.limits.MaxIterations)
	toolEvents := make([]ToolEvent, 0, a.limits.MaxIterations)
	toolsInvoked := make([]string, 0, a.limits.MaxIterations)
	toolSet := make(map[string]struct{})
	finalAnswer := ""
	fallbackReason := ""
	iterations := 0

	for i := 1; i <= a.limits.MaxIterations; i++ {
		if loopCtx.Err() != nil {
			fallbackReason = "timeout"
			break
		}

		iterations = i
		plannerCtx, plannerCancel := context.WithTimeout(loopCtx, a.limits.PlannerTimeout)
		planRaw, err := a.llm.GenerateJSON(plannerCtx, buildPlannerPrompt(question, recent, scratchpad))
		plannerCancel()
		if err != nil {
			if isTimeoutError(err) {
				fallbackReason = "timeout"
			} else {
				fallbackReason = "planner_error"
			}
			a.logger.Warn("planner failed", log.FieldError, err)
			break
		}

		step, err := parsePlanStep(planRaw)
		if err != nil {
			repairCtx, repairCancel := context.WithTimeout(loopCtx, a.limits.PlannerTimeout)
			repairedRaw, repairErr := a.llm.GenerateJSON(repairCtx, buildRepairPrompt(planRaw))
			repairCancel()
			if repairErr != nil {
				if isTimeoutError(repairErr) {
					fallbackReason = "timeout"
				} else {
					fallbackReason = "planner_invalid_json"
				}
				break
			}
			step, err = parsePlanStep(repairedRaw)
			if err != nil {
				fallbackReason = "planner_invalid_json"
				break
			}
		}

		switch step.Type {
		case "final":
			finalAnswer = strings.TrimSpace(step.Answer)
			if finalAnswer == "" {
				finalAnswer = "I could not produce an answer from the receipts I can see."
				fallbackReason = "empty_final_answer"
			}
		case "tool":
			toolCtx, toolCancel := context.WithTimeout(loopCtx, a.limits.ToolTimeout)
			event, execErr := a.executeTool(toolCtx, step, question)
			toolCancel()
			if execErr != nil {
				if isTimeoutError(execErr) {
					fallbackReason = "timeout"
				}
				errorPayload, _ := json.Marshal(map[string]string{"error": execErr.Error()})
				event = ToolEvent{
					Tool:   step.Tool,
					Status: "error",
					Output: string(errorPayload),
				}
			}
			toolEvents = append(toolEvents, event)
			if event.Tool != "" {
				if _, seen := toolSet[event.Tool]; !seen {
					toolSet[event.Tool] = struct{}{}
					toolsInvoked = append(toolsInvoked, event.Tool)
				}
			}
			scratchpad = append(scratchpad, fmt.Sprintf("%s:%s", event.Tool, event.Output))
			a.logger.Debug("tool executed", log.FieldTool, event.Tool, "status", event.Status)
			if fallbackReason == "timeout" {
				break
			}
		default:
			fallbackReason = "unsupported_step_type"
		}

		if finalAnswer != "" || fallbackReason != "" {
			break
		}
	}

	if fallbackReason == "" && finalAnswer == "" {
		fallbackReason = "max_iterations"
	}
	if finalAnswer == "" {
		finalAnswer = "I reached the current execution limits. Please refine the question and try again."
	}
	if fallbackReason != "" {
		a.logger.Warn("answer fell back", "reason", fallbackReason, log.FieldTurn, turn)
	}

	for _, event := range toolEvents {
		if err := a.store.AppendMessage(ctx, history.Message{
			ID:             uuid.NewString(),
			ConversationID: conversationID,
			Role:           history.RoleTool,
			Content:        event.Output,
			ToolName:       event.Tool,
			UserTurn:       turn,
			CreatedAt:      time.Now().UTC(),
		}); err != nil {
			return nil, fmt.Errorf("append tool message: %w", err)
		}
	}

	if err := a.store.AppendMessage(ctx, history.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           history.RoleAssistant,
		Content:        finalAnswer,
		UserTurn:       turn,
		CreatedAt:      time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}

	return &Result{
		ConversationID: conversationID,
		Answer:         finalAnswer,
		Iterations:     iterations,
		ToolsInvoked:   toolsInvoked,
		FallbackReason: fallbackReason,
		ToolEvents:     toolEvents,
	}, nil
}

func parsePlanStep(raw string) (planStep, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return planStep{}, fmt.Errorf("empty planner response")
	}
	var step planStep
	if err := json.Unmarshal([]byte(raw), &step); err != nil {
		return planStep{}, fmt.Errorf("unmarshal planner json: %w", err)
	}
	step.Type = strings.ToLower(strings.TrimSpace(step.Type))
	step.Tool = strings.ToLower(strings.TrimSpace(step.Tool))
	return step, nil
}

func isTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
