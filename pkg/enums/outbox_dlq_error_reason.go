package enums

// OutboxDLQErrorReason classifies why an outbox event landed in the
// dead letter queue.
type OutboxDLQErrorReason string

const (
	OutboxDLQReasonMaxAttempts     OutboxDLQErrorReason = "MAX_ATTEMPTS_EXCEEDED"
	OutboxDLQReasonUnroutable      OutboxDLQErrorReason = "UNROUTABLE_EVENT_TYPE"
	OutboxDLQReasonMalformed       OutboxDLQErrorReason = "MALFORMED_PAYLOAD"
	OutboxDLQReasonPublishRejected OutboxDLQErrorReason = "PUBLISH_REJECTED"
)

func (r OutboxDLQErrorReason) String() string {
	return string(r)
}
