package core

// OutcomeStatus describes how an agent invocation concluded.
type OutcomeStatus string

// Outcome statuses.
const (
	// StatusOK means the agent produced a value.
	StatusOK OutcomeStatus = "ok"
	// StatusFailed means the agent failed and was isolated; the outcome
	// carries the cause but no value.
	StatusFailed OutcomeStatus = "failed"
	// StatusSkipped means the pipeline deliberately never invoked the agent
	// (a structural skip, not a failure).
	StatusSkipped OutcomeStatus = "skipped"
)

// Outcome is the result of invoking one agent: either a present value of the
// agent's output type, or an explicit absent marker. Absence is the only way
// a failure crosses the agent contract boundary; no error or panic ever
// propagates past Invoke.
type Outcome[T any] struct {
	value  T
	status OutcomeStatus
	cause  error
}

// PresentOutcome wraps a successfully produced value.
func PresentOutcome[T any](v T) Outcome[T] {
	return Outcome[T]{value: v, status: StatusOK}
}

// AbsentOutcome records an isolated agent failure with its cause.
func AbsentOutcome[T any](cause error) Outcome[T] {
	return Outcome[T]{status: StatusFailed, cause: cause}
}

// SkippedOutcome records a deliberate structural skip. It carries no cause
// because nothing failed.
func SkippedOutcome[T any]() Outcome[T] {
	return Outcome[T]{status: StatusSkipped}
}

// Get returns the value and whether it is present.
func (o Outcome[T]) Get() (T, bool) {
	return o.value, o.status == StatusOK
}

// OrElse returns the value when present, otherwise def.
func (o Outcome[T]) OrElse(def T) T {
	if o.status == StatusOK {
		return o.value
	}
	return def
}

// Present reports whether the outcome carries a value.
func (o Outcome[T]) Present() bool { return o.status == StatusOK }

// Status returns how the invocation concluded.
func (o Outcome[T]) Status() OutcomeStatus { return o.status }

// Cause returns the failure cause for failed outcomes, nil otherwise.
func (o Outcome[T]) Cause() error { return o.cause }
