// Package retry provides fixed-interval retry logic for transient failures.
//
// The [Do] function retries an operation after a constant delay until it
// succeeds, returns an error marked with [Fatal], the context is cancelled,
// or an optional attempt ceiling is reached. It is used for control-plane
// submissions that may be rejected transiently.
package retry
