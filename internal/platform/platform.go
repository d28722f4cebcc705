// Package platform defines the conversational-platform contract the turn
// controller runs against: server-side sessions holding ordered message
// history, and polled completion cycles that may pause to request actions.
package platform

import (
	"context"
	"encoding/json"
)

// SessionID identifies a server-side conversation. The controller treats it
// as an opaque capability token.
type SessionID string

// Role is a message author role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a session's append-only history. Segments holds
// the text parts of the message in arrival order; a reply may span several.
type Message struct {
	Role     Role
	Segments []string
}

// Text concatenates the message's text segments in arrival order.
func (m Message) Text() string {
	out := ""
	for _, s := range m.Segments {
		out += s
	}
	return out
}

// Order selects message listing direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// CycleStatus is the platform-reported state of one completion cycle.
type CycleStatus string

const (
	StatusQueued         CycleStatus = "queued"
	StatusInProgress     CycleStatus = "in_progress"
	StatusRequiresAction CycleStatus = "requires_action"
	StatusCompleted      CycleStatus = "completed"
	StatusFailed         CycleStatus = "failed"
	StatusCancelled      CycleStatus = "cancelled"
	StatusExpired        CycleStatus = "expired"
)

// Terminal reports whether no further status transitions can occur.
func (s CycleStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// ActionRequest is one pending tool call surfaced by a requires_action
// cycle. CallID must be echoed back unchanged on the matching result so the
// platform can correlate the pair.
type ActionRequest struct {
	CallID string
	Name   string
	Args   json.RawMessage
}

// ActionResult answers one ActionRequest. Output is the tool's result text;
// error text is delivered through the same field.
type ActionResult struct {
	CallID string
	Output string
}

// Cycle is a snapshot of one completion cycle. ActionRequests is populated
// only while Status is requires_action. LastError carries platform-reported
// failure detail when present.
type Cycle struct {
	ID             string
	Status         CycleStatus
	ActionRequests []ActionRequest
	LastError      string
}

// Client is the platform surface the turn controller consumes. Implementations
// must keep session history append-only; retrieving a cycle's status must not
// mutate it.
type Client interface {
	CreateSession(ctx context.Context) (SessionID, error)
	AppendUserMessage(ctx context.Context, session SessionID, text string) error
	ListMessages(ctx context.Context, session SessionID, order Order) ([]Message, error)
	StartCycle(ctx context.Context, session SessionID, extraContext string) (Cycle, error)
	GetCycleStatus(ctx context.Context, session SessionID, cycleID string) (Cycle, error)
	SubmitActionResults(ctx context.Context, session SessionID, cycleID string, results []ActionResult) (Cycle, error)
}
