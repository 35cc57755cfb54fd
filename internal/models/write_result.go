package models

// WriteOutcome tells a caller how an audit write ended
type WriteOutcome string

const (
	// OutcomePersisted means the row was stored and is returned as written
	OutcomePersisted WriteOutcome = "persisted"
	// OutcomeDegradedFallback means the store failed and a stand-in record is returned
	OutcomeDegradedFallback WriteOutcome = "degraded_fallback"
	// OutcomeLoggingFailed means the store failed and no record is returned
	OutcomeLoggingFailed WriteOutcome = "logging_failed"
)

// WriteResult is the result of a soft-failing audit write
type WriteResult[T any] struct {
	Outcome WriteOutcome
	Record  *T
}

// Persisted wraps a stored record
func Persisted[T any](record *T) WriteResult[T] {
	return WriteResult[T]{Outcome: OutcomePersisted, Record: record}
}

// DegradedFallback wraps a synthesized record
func DegradedFallback[T any](record *T) WriteResult[T] {
	return WriteResult[T]{Outcome: OutcomeDegradedFallback, Record: record}
}

// LoggingFailed is the result of a write that produced nothing
func LoggingFailed[T any]() WriteResult[T] {
	return WriteResult[T]{Outcome: OutcomeLoggingFailed}
}

// IsDegraded reports whether the write did not reach the store
func (r WriteResult[T]) IsDegraded() bool {
	return r.Outcome != OutcomePersisted
}
