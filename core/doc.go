// Package core defines the shared contracts of the CareMesh pipeline: the
// request/response data model, the generic agent invocation contract with
// failure isolation, conversation context state with its capping rules, and
// the persistence and escalation-queue interfaces the coordinator depends on.
//
// Nothing in this package performs I/O beyond structured logging; concrete
// capability providers live under agents/ and concrete stores under
// conversation/.
package core
