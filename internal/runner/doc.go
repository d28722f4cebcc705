// Package runner drives one conversational turn against the platform and
// dispatches requested actions.
//
// Invariants:
//   - every action request in a batch gets exactly one result, with its call
//     ID echoed back unchanged; the batch is submitted in a single call.
//   - dispatch never raises: unknown names, handler errors and panics all
//     become error-describing result text fed back to the model.
//   - polling is bounded; an exhausted budget degrades to best-effort reply
//     extraction rather than blocking the caller.
//
// Flow:
//
//	user(text) -> cycle(polling) -> [requires_action -> dispatch -> submit]* -> reply
package runner
