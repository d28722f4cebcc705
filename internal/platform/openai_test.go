package platform

import (
	"testing"

	"github.com/openai/openai-go"
)

func TestMapRunStatus(t *testing.T) {
	cases := []struct {
		in   openai.RunStatus
		want CycleStatus
	}{
		{openai.RunStatusQueued, StatusQueued},
		{openai.RunStatusInProgress, StatusInProgress},
		{openai.RunStatusCancelling, StatusInProgress},
		{openai.RunStatusRequiresAction, StatusRequiresAction},
		{openai.RunStatusCompleted, StatusCompleted},
		{openai.RunStatusCancelled, StatusCancelled},
		{openai.RunStatusExpired, StatusExpired},
		{openai.RunStatusFailed, StatusFailed},
		{openai.RunStatusIncomplete, StatusFailed},
		{openai.RunStatus("something_new"), StatusFailed},
	}
	for _, tc := range cases {
		if got := mapRunStatus(tc.in); got != tc.want {
			t.Errorf("mapRunStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCycleFromRun_RequiresAction(t *testing.T) {
	run := &openai.Run{
		ID:     "run-1",
		Status: openai.RunStatusRequiresAction,
	}
	run.RequiredAction.SubmitToolOutputs.ToolCalls = []openai.RequiredActionFunctionToolCall{
		{ID: "call-1", Function: openai.RequiredActionFunctionToolCallFunction{Name: "GetPosts", Arguments: `{"since":"2024-02-01"}`}},
		{ID: "call-2", Function: openai.RequiredActionFunctionToolCallFunction{Name: "CreateCampaign", Arguments: ""}},
	}

	c := cycleFromRun(run)
	if c.ID != "run-1" || c.Status != StatusRequiresAction {
		t.Fatalf("cycle header wrong: %+v", c)
	}
	if len(c.ActionRequests) != 2 {
		t.Fatalf("got %d requests, want 2", len(c.ActionRequests))
	}
	if c.ActionRequests[0].CallID != "call-1" || c.ActionRequests[0].Name != "GetPosts" {
		t.Errorf("first request wrong: %+v", c.ActionRequests[0])
	}
	// Empty arguments become an empty JSON object so handlers can always
	// unmarshal.
	if string(c.ActionRequests[1].Args) != "{}" {
		t.Errorf("empty args not defaulted: %q", c.ActionRequests[1].Args)
	}
}

func TestCycleFromRun_TerminalCarriesError(t *testing.T) {
	run := &openai.Run{ID: "run-2", Status: openai.RunStatusFailed}
	run.LastError.Message = "rate limit exceeded"

	c := cycleFromRun(run)
	if c.Status != StatusFailed || c.LastError != "rate limit exceeded" {
		t.Fatalf("failure detail dropped: %+v", c)
	}
	if c.ActionRequests != nil {
		t.Error("terminal cycle should carry no action requests")
	}
}

func TestMessageText_ConcatenatesSegments(t *testing.T) {
	m := Message{Role: RoleAssistant, Segments: []string{"Here are ", "3 posts", "."}}
	if got := m.Text(); got != "Here are 3 posts." {
		t.Errorf("Text() = %q", got)
	}
	if (Message{}).Text() != "" {
		t.Error("empty message should read as empty text")
	}
}

func TestCycleStatus_Terminal(t *testing.T) {
	terminal := []CycleStatus{StatusCompleted, StatusFailed, StatusCancelled, StatusExpired}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []CycleStatus{StatusQueued, StatusInProgress, StatusRequiresAction} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
