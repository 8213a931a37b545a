// Package pipeline contains the coordinator that sequences the analysis
// agents for one customer interaction, the aggregator that merges their
// outcomes into a unified response, the deferred worker pool for
// post-response feedback analysis, and escalation queue sinks.
//
// The coordinator's contract is that Handle always returns a well-formed
// response: agent failures are isolated at the invocation boundary and
// downgrade to absent outcomes, a context-store miss on update is a logged
// no-op, and the anomaly scan is structurally skipped when the request
// carries no account identifier.
package pipeline
