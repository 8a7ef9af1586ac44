// Package services holds the CapSeal client's core behavior: capture
// admission into the durable queue, the per-capture sync state machine with
// its single-flight guard, the serial batch orchestrator, the persisted sync
// summary, and the connectivity coordinator that decides when syncing should
// be attempted.
//
// The state machine per capture is:
//
//	pending|failed --[sync start]--> syncing --[success]--> deleted, seal recorded
//	                                         --[failure]--> failed (retryable)
//
// Failures during sync are absorbed into the record's persisted state rather
// than returned as errors: offline periods and transient server errors are
// routine here, and the failed record itself is the durable, reload-surviving
// representation of the failure.
package services
