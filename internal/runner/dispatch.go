package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/faults"
	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/platform"
	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/telemetry"
	"github.com/kartik-syal/facebook-ads-ai-assistant/tools"
)

// Dispatcher routes action requests to registry handlers. It always produces
// exactly one result per request: unknown names, handler errors and panics
// all come back as error-describing result text, never as raised failures,
// because the output is fed to the model as if it were the tool's own reply.
type Dispatcher struct {
	byName map[string]tools.ToolDefinition
}

// NewDispatcher indexes the registry by action name. The mapping is
// read-only afterwards and safe to share across turns and sessions.
func NewDispatcher(defs []tools.ToolDefinition) *Dispatcher {
	byName := make(map[string]tools.ToolDefinition, len(defs))
	for _, d := range defs {
		byName[d.Name] = d
	}
	return &Dispatcher{byName: byName}
}

// Dispatch invokes the action named by req and returns its result with the
// request's call ID echoed back unchanged. No retries happen here: several
// underlying side effects (campaign creation in particular) are not safe to
// replay blindly.
func (d *Dispatcher) Dispatch(ctx context.Context, req platform.ActionRequest) platform.ActionResult {
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	start := time.Now()

	emit := func(outputSize int, marker string, err error) {
		fields := map[string]any{
			"tool_name":   req.Name,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  len(req.Args),
			"output_size": outputSize,
			"turn_id":     turnID,
		}
		if err != nil {
			fields["error"] = marker
			fields["fault_kind"] = string(faults.KindOf(err))
			fields["retryable"] = faults.IsRetryable(err)
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	def, ok := d.byName[req.Name]
	if !ok {
		emit(0, "unknown function", faults.UnknownAction(req.Name))
		return platform.ActionResult{
			CallID: req.CallID,
			Output: fmt.Sprintf("Error: unknown function '%s'", req.Name),
		}
	}

	output, err := d.invoke(ctx, def, req)
	if err != nil {
		// Telemetry gets a kind and retryability marker, not the message, to
		// avoid leaking payloads; the model still sees the full detail in the
		// result text.
		emit(0, "tool error", err)
		return platform.ActionResult{
			CallID: req.CallID,
			Output: fmt.Sprintf("Error in %s: %v", req.Name, err),
		}
	}
	emit(len(output), "", nil)
	return platform.ActionResult{CallID: req.CallID, Output: output}
}

// invoke runs the handler behind a recovery boundary so a panicking action
// degrades to an error result instead of tearing down the turn.
func (d *Dispatcher) invoke(ctx context.Context, def tools.ToolDefinition, req platform.ActionRequest) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return def.Function(ctx, req.Args)
}
