package pipeline

import (
	"github.com/caremesh/caremesh/core"
	"github.com/caremesh/caremesh/logging"
)

// QueueSink buffers escalation payloads on a channel for an external
// consumer (a human-handoff worker, a message broker bridge). Enqueue never
// blocks: when the buffer is full the payload is dropped and logged, because
// the request path must not wait on the escalation queue.
type QueueSink struct {
	ch     chan core.EscalationPayload
	logger logging.Logger
}

// NewQueueSink creates a sink with the given buffer size.
func NewQueueSink(size int, logger logging.Logger) *QueueSink {
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &QueueSink{ch: make(chan core.EscalationPayload, size), logger: logger}
}

// Enqueue hands off a payload fire-and-forget.
func (q *QueueSink) Enqueue(payload core.EscalationPayload) {
	select {
	case q.ch <- payload:
	default:
		q.logger.Warn("escalation queue full, dropping payload",
			"interaction_id", payload.InteractionID,
			"conversation_id", payload.ConversationID,
		)
	}
}

// Payloads exposes the queue to its consumer.
func (q *QueueSink) Payloads() <-chan core.EscalationPayload {
	return q.ch
}

// Close ends the payload stream. Call only after the coordinator has stopped
// enqueueing.
func (q *QueueSink) Close() {
	close(q.ch)
}

// LogSink records escalations in the log and nothing else. It is the default
// when no queue is wired.
type LogSink struct {
	Logger logging.Logger
}

// Enqueue logs the payload.
func (s LogSink) Enqueue(payload core.EscalationPayload) {
	logger := s.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	logger.Info("escalation handed off",
		"interaction_id", payload.InteractionID,
		"conversation_id", payload.ConversationID,
		"customer_id", payload.CustomerID,
		"reason", payload.Reason,
	)
}
