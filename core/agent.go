package core

import (
	"context"
	"fmt"
	"time"

	"github.com/caremesh/caremesh/logging"
)

// Agent roles. Every capability provider registers under exactly one of
// these; the coordinator constructs role-specific inputs and the response
// trace is keyed by role.
const (
	RoleGenerator = "generator"
	RoleKnowledge = "knowledge_search"
	RoleSentiment = "sentiment"
	RoleAnomaly   = "anomaly_scan"
	RoleFeedback  = "feedback_analysis"
)

// DefaultAgentTimeout bounds a single agent invocation when the caller does
// not supply its own limit. Expiry yields an absent outcome identical to any
// other agent failure.
const DefaultAgentTimeout = 5 * time.Second

// Agent is one independent analysis capability with a fixed input/output
// pair. Implementations return plain errors; failure isolation is the
// Invoke wrapper's job, so Process never needs to recover or degrade itself.
//
// Implementations must respect context cancellation and be safe for
// concurrent use: one Agent value serves every in-flight request.
type Agent[I, O any] interface {
	Name() string
	Process(ctx context.Context, input I) (O, error)
}

// Invoke runs one agent under the uniform invocation contract:
//
//   - the call is bounded by timeout (DefaultAgentTimeout when <= 0)
//   - any error, timeout, or panic is converted to an absent outcome
//   - start, completion, and failure are logged with the interaction
//     identifier and agent role
//
// Invoke never panics and never returns an error; the caller always receives
// a usable Outcome.
func Invoke[I, O any](
	ctx context.Context,
	agent Agent[I, O],
	interactionID string,
	input I,
	timeout time.Duration,
	logger logging.Logger,
) Outcome[O] {
	if timeout <= 0 {
		timeout = DefaultAgentTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Info("agent started", "agent", agent.Name(), "interaction_id", interactionID)
	start := time.Now()

	type result struct {
		out O
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("agent %s panicked: %v", agent.Name(), r)}
			}
		}()
		out, err := agent.Process(cctx, input)
		done <- result{out: out, err: err}
	}()

	select {
	case <-cctx.Done():
		err := fmt.Errorf("agent %s: %w", agent.Name(), cctx.Err())
		logger.Error("agent failed",
			"agent", agent.Name(),
			"interaction_id", interactionID,
			"duration", time.Since(start),
			"error", err.Error(),
		)
		return AbsentOutcome[O](err)

	case res := <-done:
		if res.err != nil {
			logger.Error("agent failed",
				"agent", agent.Name(),
				"interaction_id", interactionID,
				"duration", time.Since(start),
				"error", res.err.Error(),
			)
			return AbsentOutcome[O](res.err)
		}
		logger.Info("agent completed",
			"agent", agent.Name(),
			"interaction_id", interactionID,
			"duration", time.Since(start),
		)
		return PresentOutcome(res.out)
	}
}
