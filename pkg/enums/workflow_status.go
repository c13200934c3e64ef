package enums

import "fmt"

// WorkflowStatus is the lifecycle state of a partnership workflow record.
// RESTARTED marks a superseded run; at most one ACTIVE workflow may exist
// per influencer.
type WorkflowStatus string

const (
	WorkflowStatusActive    WorkflowStatus = "ACTIVE"
	WorkflowStatusCompleted WorkflowStatus = "COMPLETED"
	WorkflowStatusCancelled WorkflowStatus = "CANCELLED"
	WorkflowStatusRestarted WorkflowStatus = "RESTARTED"
)

var validWorkflowStatuses = map[WorkflowStatus]struct{}{
	WorkflowStatusActive:    {},
	WorkflowStatusCompleted: {},
	WorkflowStatusCancelled: {},
	WorkflowStatusRestarted: {},
}

func (s WorkflowStatus) String() string {
	return string(s)
}

func (s WorkflowStatus) IsValid() bool {
	_, ok := validWorkflowStatuses[s]
	return ok
}

func ParseWorkflowStatus(value string) (WorkflowStatus, error) {
	status := WorkflowStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid workflow status: %q", value)
	}
	return status, nil
}
