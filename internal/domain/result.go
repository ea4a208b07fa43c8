package domain

import "fmt"

// OutcomeKind classifies the terminal result of a launch, as exposed to
// the CLI layer for exit-code and message mapping.
type OutcomeKind string

const (
	LaunchedFully     OutcomeKind = "launched_fully"
	LaunchedPartially OutcomeKind = "launched_partially"
	ValidationFailed  OutcomeKind = "validation_failed"
	ElevationDeclined OutcomeKind = "elevation_declined"
)

// Outcome is the terminal result of one launch invocation.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
	PID    int // PID of the spawned process, when one was spawned
}

// ValidationError reports a bad profile (missing executable, empty CPU
// set). Always recoverable: the CLI offers to fix the path, delete the
// profile, or abort.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// SpawnError reports that the target process could not be started. It is
// fatal for the attempt and never retried.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawning %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ElevationCause categorizes why an elevation request failed, so the
// fallback prompt can give specific guidance.
type ElevationCause string

const (
	CauseDeclined      ElevationCause = "declined"       // user cancelled the privilege prompt
	CauseBinaryMissing ElevationCause = "binary_missing" // our own executable could not be found
	CauseResources     ElevationCause = "resources"      // OS out of memory or handles
	CauseUnknown       ElevationCause = "unknown"
)

// ElevationError reports a rejected privilege re-invocation.
type ElevationError struct {
	Cause ElevationCause
	Err   error
}

func (e *ElevationError) Error() string {
	return fmt.Sprintf("elevation request failed (%s): %v", e.Cause, e.Err)
}

func (e *ElevationError) Unwrap() error { return e.Err }
