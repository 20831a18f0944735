// Package jobs runs full-resolution renders on a small bounded worker
// pool.
//
// The pool size is fixed at process start. It is intentionally not tied
// to the hardware policy's advisory worker count: the policy tunes render
// internals, while this pool bounds how many multi-second renders can
// occupy the process at once. Submission never blocks; when the buffered
// queue is at capacity, Submit rejects immediately so request handlers
// can answer with a retry signal instead of hanging.
//
// Outcomes are retained in a single status slot with last-writer-wins
// semantics. Submitting a new job does not cancel an earlier one; both
// run to completion and the record callers see is whichever finished
// last. The slot is an atomic pointer swap, so readers always observe a
// complete record. Background failures are never raised anywhere; they
// are visible only through the status record.
package jobs
