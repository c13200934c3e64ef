package payloads

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowStepAdvancedEvent is emitted when a workflow moves to its next step.
// Variables carries the template substitution map for the step notification
// email; the email worker renders and delivers it.
type WorkflowStepAdvancedEvent struct {
	WorkflowID       uuid.UUID         `json:"workflowId"`
	InfluencerID     uuid.UUID         `json:"influencerId"`
	CompletedStep    int               `json:"completedStep"`
	NextStep         int               `json:"nextStep"`
	StepName         string            `json:"stepName"`
	InfluencerStatus string            `json:"influencerStatus"`
	Recipient        string            `json:"recipient"`
	Variables        map[string]string `json:"variables"`
}

// WorkflowCompletedEvent is emitted on the terminal step-5 advance. No email
// is sent for completion, so this event carries no template variables.
type WorkflowCompletedEvent struct {
	WorkflowID   uuid.UUID `json:"workflowId"`
	InfluencerID uuid.UUID `json:"influencerId"`
	CompletedAt  time.Time `json:"completedAt"`
}

// WorkflowRestartedEvent is emitted when a finished workflow spawns a fresh run.
type WorkflowRestartedEvent struct {
	PreviousWorkflowID uuid.UUID `json:"previousWorkflowId"`
	NewWorkflowID      uuid.UUID `json:"newWorkflowId"`
	InfluencerID       uuid.UUID `json:"influencerId"`
}

// CouponAttachedEvent is emitted when a coupon code is set on a workflow.
type CouponAttachedEvent struct {
	WorkflowID   uuid.UUID `json:"workflowId"`
	InfluencerID uuid.UUID `json:"influencerId"`
	CouponCode   string    `json:"couponCode"`
}
