// Package faults classifies failures crossing the assistant's recovery
// boundaries so callers branch on a stable kind instead of matching strings.
package faults

import (
	"errors"
	"fmt"
)

// Kind is a stable, machine-readable failure class.
type Kind string

const (
	// KindValidation covers bad or out-of-range action arguments, caught
	// before any network call is made.
	KindValidation Kind = "validation"
	// KindNetwork covers transport-level failures (DNS, TLS, timeouts on
	// the wire, unreachable hosts).
	KindNetwork Kind = "network"
	// KindPlatform covers errors reported by the remote platform itself
	// (Graph API error payloads, non-2xx statuses).
	KindPlatform Kind = "platform"
	// KindUnknownAction marks a dispatch request for a name that is not in
	// the registry.
	KindUnknownAction Kind = "unknown_action"
	// KindTimeout marks an exhausted polling budget.
	KindTimeout Kind = "timeout"
	// KindUnknown is the fallback for unclassified errors.
	KindUnknown Kind = "unknown"
)

// Error carries a failure kind alongside the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a validation-kind error for op with a formatted message.
func Validation(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Network wraps a transport failure observed by op.
func Network(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

// Platform returns a platform-kind error carrying the remote message.
func Platform(op, format string, args ...any) *Error {
	return &Error{Kind: KindPlatform, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// UnknownAction returns an unknown-action error for the given name.
func UnknownAction(name string) *Error {
	return &Error{Kind: KindUnknownAction, Op: "dispatch", Msg: fmt.Sprintf("unknown function %q", name)}
}

// Timeout returns a timeout-kind error for op.
func Timeout(op, format string, args ...any) *Error {
	return &Error{Kind: KindTimeout, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err, unwrapping as needed.
// Unclassified errors report KindUnknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether a failure of this kind may succeed on retry.
// Validation and unknown-action faults are deterministic; platform-side
// effects (campaign creation) must not be blindly retried, so only pure
// transport failures qualify.
func IsRetryable(err error) bool {
	return KindOf(err) == KindNetwork
}
