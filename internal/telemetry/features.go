package telemetry

import (
	"context"

	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/metrics"
)

// EmitTurnFeatures records size features of one side of a turn (role is
// "user" or "reply") without persisting the text itself.
func EmitTurnFeatures(ctx context.Context, role, text string) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	s := metrics.TextStats(text)
	Emit("turn_features", map[string]any{
		"turn_id": turnID,
		"role":    role,
		"bytes":   s.Bytes,
		"runes":   s.Runes,
		"words":   s.Words,
		"lines":   s.Lines,
	})
}
