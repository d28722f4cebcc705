package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/faults"
	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/platform"
	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/telemetry"
	"github.com/kartik-syal/facebook-ads-ai-assistant/tools"
)

// State is the turn controller's position in the turn lifecycle.
type State int

const (
	StateSubmitting State = iota
	StatePolling
	StateActionsRequired
	StateSubmittingResults
	StateCompleted
	StateFailed
	StateCancelled
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StatePolling:
		return "polling"
	case StateActionsRequired:
		return "actions_required"
	case StateSubmittingResults:
		return "submitting_results"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	case StateExpired:
		return "expired"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Chunk is one unit of turn output. The minimal contract emits a single
// final chunk per turn; Err is set only for setup faults, where there is no
// conversational content to fall back on.
type Chunk struct {
	Text string
	Err  error
}

// FallbackReply is emitted when a turn ends without any assistant message to
// show, keeping the conversational contract intact even on failure.
const FallbackReply = "I wasn't able to generate a response for that request. Please try again."

const (
	defaultPollDelay = 500 * time.Millisecond
	defaultMaxPolls  = 240 // 2 minutes at the default delay
)

// Runner drives one conversational turn to completion: it submits the user
// text, polls the cycle, dispatches requested actions, feeds results back
// and extracts the final reply.
//
// Turns on the same session must be serialized by the caller; the platform
// does not support concurrent cycles on one session.
type Runner struct {
	Platform   platform.Client
	Dispatcher *Dispatcher

	// Wait paces the poll loop. Defaults to a fixed 500ms delay.
	Wait WaitStrategy
	// MaxPolls bounds status checks per turn before the turn degrades to a
	// synthetic timeout failure. Defaults to 240.
	MaxPolls int
}

func New(client platform.Client, defs []tools.ToolDefinition) *Runner {
	return &Runner{
		Platform:   client,
		Dispatcher: NewDispatcher(defs),
		Wait:       FixedDelay{Delay: defaultPollDelay},
		MaxPolls:   defaultMaxPolls,
	}
}

// RunTurn submits userText to the session and returns a finite sequence of
// output chunks; the final assistant reply (or a fallback) is always the
// last chunk, after which the channel is closed. The cycle backing the turn
// is discarded when the sequence ends.
func (r *Runner) RunTurn(ctx context.Context, session platform.SessionID, userText string) <-chan Chunk {
	out := make(chan Chunk, 1)
	go func() {
		defer close(out)
		r.runTurn(ctx, session, userText, out)
	}()
	return out
}

func (r *Runner) runTurn(ctx context.Context, session platform.SessionID, userText string, out chan<- Chunk) {
	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = uuid.NewString()
		ctx = telemetry.WithTurnID(ctx, turnID)
	}
	start := time.Now()
	telemetry.Emit("turn_started", map[string]any{
		"turn_id":    turnID,
		"session_id": string(session),
	})
	telemetry.EmitTurnFeatures(ctx, "user", userText)

	finish := func(final State, polls int) {
		telemetry.Emit("turn_finished", map[string]any{
			"turn_id":     turnID,
			"state":       final.String(),
			"polls":       polls,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}

	var (
		state      = StateSubmitting
		cycle      platform.Cycle
		results    []platform.ActionResult
		polls      int
		lastStatus platform.CycleStatus
	)

	for {
		switch state {
		case StateSubmitting:
			if err := r.Platform.AppendUserMessage(ctx, session, userText); err != nil {
				out <- Chunk{Err: fmt.Errorf("append user message: %w", err)}
				finish(StateFailed, polls)
				return
			}
			c, err := r.Platform.StartCycle(ctx, session, dateContext(time.Now()))
			if err != nil {
				out <- Chunk{Err: fmt.Errorf("start cycle: %w", err)}
				finish(StateFailed, polls)
				return
			}
			cycle = c
			lastStatus = c.Status
			state = StatePolling

		case StatePolling:
			switch cycle.Status {
			case platform.StatusRequiresAction:
				state = StateActionsRequired
			case platform.StatusCompleted:
				state = StateCompleted
			case platform.StatusFailed:
				state = StateFailed
			case platform.StatusCancelled:
				state = StateCancelled
			case platform.StatusExpired:
				state = StateExpired
			default: // queued, in_progress
				if polls >= r.maxPolls() {
					// An exhausted poll budget is a cycle fault like any
					// other: degrade to best-effort reply extraction.
					terr := faults.Timeout("runner.RunTurn", "cycle %s not terminal after %d status checks", cycle.ID, polls)
					telemetry.Emit("turn_timeout", map[string]any{
						"turn_id": turnID, "cycle_id": cycle.ID, "polls": polls,
					})
					cycle.Status = platform.StatusFailed
					cycle.LastError = terr.Error()
					continue
				}
				polls++
				if err := r.wait(ctx, polls); err != nil {
					// Context cancelled mid-poll: abandon the cycle.
					out <- Chunk{Err: err}
					finish(StateCancelled, polls)
					return
				}
				c, err := r.Platform.GetCycleStatus(ctx, session, cycle.ID)
				if err != nil {
					// Treat an unreadable cycle as a cycle fault and degrade
					// to a best-effort reply.
					cycle.Status = platform.StatusFailed
					cycle.LastError = err.Error()
					continue
				}
				if c.Status != lastStatus {
					telemetry.Emit("cycle_transition", map[string]any{
						"turn_id": turnID, "cycle_id": c.ID, "status": string(c.Status), "polls": polls,
					})
					lastStatus = c.Status
				}
				cycle = c
			}

		case StateActionsRequired:
			// Each request is dispatched independently, duplicates included;
			// the full batch is collected before anything is submitted.
			results = make([]platform.ActionResult, 0, len(cycle.ActionRequests))
			for _, req := range cycle.ActionRequests {
				results = append(results, r.Dispatcher.Dispatch(ctx, req))
			}
			state = StateSubmittingResults

		case StateSubmittingResults:
			c, err := r.Platform.SubmitActionResults(ctx, session, cycle.ID, results)
			if err != nil {
				cycle.Status = platform.StatusFailed
				cycle.LastError = err.Error()
				state = StatePolling
				continue
			}
			cycle = c
			state = StatePolling

		case StateCompleted:
			out <- Chunk{Text: r.bestEffortReply(ctx, session)}
			finish(StateCompleted, polls)
			return

		case StateFailed, StateCancelled, StateExpired:
			if cycle.LastError != "" {
				telemetry.Emit("cycle_error", map[string]any{
					"turn_id": turnID, "cycle_id": cycle.ID, "status": string(cycle.Status), "detail": cycle.LastError,
				})
			}
			out <- Chunk{Text: r.bestEffortReply(ctx, session)}
			finish(state, polls)
			return
		}
	}
}

// bestEffortReply returns the latest assistant message's text segments
// concatenated in arrival order, or the fallback when none exists.
func (r *Runner) bestEffortReply(ctx context.Context, session platform.SessionID) string {
	msgs, err := r.Platform.ListMessages(ctx, session, platform.OrderDesc)
	if err != nil {
		return FallbackReply
	}
	for _, m := range msgs {
		if m.Role != platform.RoleAssistant {
			continue
		}
		if text := m.Text(); text != "" {
			telemetry.EmitTurnFeatures(ctx, "reply", text)
			return text
		}
		break
	}
	return FallbackReply
}

func (r *Runner) maxPolls() int {
	if r.MaxPolls > 0 {
		return r.MaxPolls
	}
	return defaultMaxPolls
}

func (r *Runner) wait(ctx context.Context, attempt int) error {
	w := r.Wait
	if w == nil {
		w = FixedDelay{Delay: defaultPollDelay}
	}
	return w.Wait(ctx, attempt)
}

// dateContext is extra context attached to every cycle so the model can
// resolve relative day, month and year references.
func dateContext(now time.Time) string {
	return fmt.Sprintf(
		"Today's date is %s. You can use it to understand which year, month or day the user is referring to.",
		now.Format("January 2, 2006"),
	)
}
