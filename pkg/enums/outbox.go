package enums

import "fmt"

// OutboxEventStatus is the delivery state of a transactional outbox row.
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "PENDING"
	OutboxEventStatusPublished OutboxEventStatus = "PUBLISHED"
	OutboxEventStatusFailed    OutboxEventStatus = "FAILED"
	OutboxEventStatusTerminal  OutboxEventStatus = "TERMINAL"
)

var validOutboxEventStatuses = map[OutboxEventStatus]struct{}{
	OutboxEventStatusPending:   {},
	OutboxEventStatusPublished: {},
	OutboxEventStatusFailed:    {},
	OutboxEventStatusTerminal:  {},
}

func (s OutboxEventStatus) String() string {
	return string(s)
}

func (s OutboxEventStatus) IsValid() bool {
	_, ok := validOutboxEventStatuses[s]
	return ok
}

func ParseOutboxEventStatus(value string) (OutboxEventStatus, error) {
	status := OutboxEventStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid outbox event status: %q", value)
	}
	return status, nil
}

// OutboxEventType names every event the backend emits through the outbox.
type OutboxEventType string

const (
	OutboxEventWorkflowStepAdvanced OutboxEventType = "workflow_step_advanced"
	OutboxEventWorkflowCompleted    OutboxEventType = "workflow_completed"
	OutboxEventWorkflowRestarted    OutboxEventType = "workflow_restarted"
	OutboxEventCouponAttached       OutboxEventType = "coupon_attached"
	OutboxEventEmailRequested       OutboxEventType = "workflow_email_requested"
)

var validOutboxEventTypes = map[OutboxEventType]struct{}{
	OutboxEventWorkflowStepAdvanced: {},
	OutboxEventWorkflowCompleted:    {},
	OutboxEventWorkflowRestarted:    {},
	OutboxEventCouponAttached:       {},
	OutboxEventEmailRequested:       {},
}

func (t OutboxEventType) String() string {
	return string(t)
}

func (t OutboxEventType) IsValid() bool {
	_, ok := validOutboxEventTypes[t]
	return ok
}

// OutboxAggregateType names the aggregate a domain event belongs to.
type OutboxAggregateType string

const (
	OutboxAggregateWorkflow   OutboxAggregateType = "workflow"
	OutboxAggregateInfluencer OutboxAggregateType = "influencer"
	OutboxAggregateCoupon     OutboxAggregateType = "coupon"
)

func (t OutboxAggregateType) String() string {
	return string(t)
}
