// Package errors provides structured error handling for the compose runtime.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindContract indicates a caller-contract violation (slot access outside
	// an open scope, unbalanced scopes, reentrant cycle entry).
	KindContract
	// KindBody indicates a failure raised while executing a composable body.
	KindBody
	// KindRunaway indicates the recomposition pass limit was exceeded.
	KindRunaway
	// KindBridge indicates a presentation bridge failure.
	KindBridge
	// KindScenario indicates a replay scenario parsing or execution error.
	KindScenario
)

func (k ErrorKind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindBody:
		return "body"
	case KindRunaway:
		return "runaway"
	case KindBridge:
		return "bridge"
	case KindScenario:
		return "scenario"
	default:
		return "unknown"
	}
}

// ComposeError represents a structured error in the compose runtime.
type ComposeError struct {
	// Op is the operation that failed (e.g., "compose.RunCycle").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ComposeError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ComposeError) Unwrap() error {
	return e.Err
}

// ContractError represents a violation of the composition caller contract.
// Contract violations are defects in calling code: they abort the current
// pass instead of silently defaulting.
type ContractError struct {
	// Op is the operation whose contract was violated (e.g., "Composer.Emit").
	Op string
	// Detail describes the violated rule.
	Detail string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Detail)
}

// BodyError represents a failure raised while executing a composable body.
// The failure is isolated to the node's subtree: the pre-failure tree state
// is retained and the nearest enclosing failure boundary shows its fallback.
type BodyError struct {
	// TypeTag identifies the composable that produced the failing node.
	TypeTag string
	// Node is the identity of the failing node.
	Node uint64
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the failure.
	StackTrace string
	// Timestamp is when the failure occurred.
	Timestamp time.Time
}

func (e *BodyError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %q body (node %d): %v", e.TypeTag, e.Node, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %q body (node %d): %v", e.TypeTag, e.Node, e.Err)
	}
	return fmt.Sprintf("unknown failure in %q body (node %d)", e.TypeTag, e.Node)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

// RunawayError reports that state changes kept invalidating nodes past the
// configured recomposition pass limit within a single cycle.
type RunawayError struct {
	// Passes is the number of passes executed before giving up.
	Passes int
	// Nodes identifies the nodes still pending when the limit tripped.
	Nodes []uint64
}

func (e *RunawayError) Error() string {
	return fmt.Sprintf("recomposition limit exceeded after %d passes; still pending: %v", e.Passes, e.Nodes)
}

// ErrorHandler receives errors reported by the compose runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ComposeError)
	// HandleBodyError is called when a composable body fails.
	HandleBodyError(err *BodyError)
}
