package platform

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// ToolSpec describes one function tool to register on each cycle, so the
// assistant's callable surface always matches the local registry.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// OpenAIAssistants implements Client on the OpenAI Assistants API: sessions
// are threads, cycles are runs.
type OpenAIAssistants struct {
	client      openai.Client
	assistantID string
	tools       []openai.AssistantToolUnionParam
}

// NewOpenAIAssistants builds the adapter. assistantID names a pre-provisioned
// assistant; specs are attached to every run so tool schemas never drift
// from the registry.
func NewOpenAIAssistants(apiKey, assistantID string, specs []ToolSpec) *OpenAIAssistants {
	toolParams := make([]openai.AssistantToolUnionParam, 0, len(specs))
	for _, s := range specs {
		toolParams = append(toolParams, openai.AssistantToolUnionParam{
			OfFunction: &openai.FunctionToolParam{
				Function: shared.FunctionDefinitionParam{
					Name:        s.Name,
					Description: openai.String(s.Description),
					Parameters:  shared.FunctionParameters(s.Parameters),
				},
			},
		})
	}
	return &OpenAIAssistants{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		assistantID: assistantID,
		tools:       toolParams,
	}
}

func (o *OpenAIAssistants) CreateSession(ctx context.Context) (SessionID, error) {
	thread, err := o.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return SessionID(thread.ID), nil
}

func (o *OpenAIAssistants) AppendUserMessage(ctx context.Context, session SessionID, text string) error {
	_, err := o.client.Beta.Threads.Messages.New(ctx, string(session), openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return fmt.Errorf("append user message: %w", err)
	}
	return nil
}

func (o *OpenAIAssistants) ListMessages(ctx context.Context, session SessionID, order Order) ([]Message, error) {
	dir := openai.BetaThreadMessageListParamsOrderAsc
	if order == OrderDesc {
		dir = openai.BetaThreadMessageListParamsOrderDesc
	}
	page, err := o.client.Beta.Threads.Messages.List(ctx, string(session), openai.BetaThreadMessageListParams{
		Order: dir,
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	out := make([]Message, 0, len(page.Data))
	for _, m := range page.Data {
		msg := Message{Role: Role(m.Role)}
		for _, c := range m.Content {
			if c.Type == "text" {
				msg.Segments = append(msg.Segments, c.Text.Value)
			}
		}
		out = append(out, msg)
	}
	return out, nil
}

func (o *OpenAIAssistants) StartCycle(ctx context.Context, session SessionID, extraContext string) (Cycle, error) {
	params := openai.BetaThreadRunNewParams{
		AssistantID: o.assistantID,
	}
	if extraContext != "" {
		params.AdditionalInstructions = openai.String(extraContext)
	}
	if len(o.tools) > 0 {
		params.Tools = o.tools
	}
	run, err := o.client.Beta.Threads.Runs.New(ctx, string(session), params)
	if err != nil {
		return Cycle{}, fmt.Errorf("start run: %w", err)
	}
	return cycleFromRun(run), nil
}

func (o *OpenAIAssistants) GetCycleStatus(ctx context.Context, session SessionID, cycleID string) (Cycle, error) {
	run, err := o.client.Beta.Threads.Runs.Get(ctx, string(session), cycleID)
	if err != nil {
		return Cycle{}, fmt.Errorf("get run: %w", err)
	}
	return cycleFromRun(run), nil
}

func (o *OpenAIAssistants) SubmitActionResults(ctx context.Context, session SessionID, cycleID string, results []ActionResult) (Cycle, error) {
	outputs := make([]openai.BetaThreadRunSubmitToolOutputsParamsToolOutput, 0, len(results))
	for _, r := range results {
		outputs = append(outputs, openai.BetaThreadRunSubmitToolOutputsParamsToolOutput{
			ToolCallID: openai.String(r.CallID),
			Output:     openai.String(r.Output),
		})
	}
	run, err := o.client.Beta.Threads.Runs.SubmitToolOutputs(ctx, string(session), cycleID, openai.BetaThreadRunSubmitToolOutputsParams{
		ToolOutputs: outputs,
	})
	if err != nil {
		return Cycle{}, fmt.Errorf("submit tool outputs: %w", err)
	}
	return cycleFromRun(run), nil
}

func cycleFromRun(run *openai.Run) Cycle {
	c := Cycle{
		ID:     run.ID,
		Status: mapRunStatus(run.Status),
	}
	if run.LastError.Message != "" {
		c.LastError = run.LastError.Message
	}
	if c.Status == StatusRequiresAction {
		calls := run.RequiredAction.SubmitToolOutputs.ToolCalls
		c.ActionRequests = make([]ActionRequest, 0, len(calls))
		for _, tc := range calls {
			args := tc.Function.Arguments
			if args == "" {
				args = "{}"
			}
			c.ActionRequests = append(c.ActionRequests, ActionRequest{
				CallID: tc.ID,
				Name:   tc.Function.Name,
				Args:   []byte(args),
			})
		}
	}
	return c
}

// mapRunStatus folds the platform's run statuses onto cycle statuses.
// Cancelling counts as still-running; incomplete is a failure from the
// conversation's point of view.
func mapRunStatus(s openai.RunStatus) CycleStatus {
	switch s {
	case openai.RunStatusQueued:
		return StatusQueued
	case openai.RunStatusInProgress, openai.RunStatusCancelling:
		return StatusInProgress
	case openai.RunStatusRequiresAction:
		return StatusRequiresAction
	case openai.RunStatusCompleted:
		return StatusCompleted
	case openai.RunStatusCancelled:
		return StatusCancelled
	case openai.RunStatusExpired:
		return StatusExpired
	default: // failed, incomplete, anything new
		return StatusFailed
	}
}
