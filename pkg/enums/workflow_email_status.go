package enums

import "fmt"

// WorkflowEmailStatus tracks a step notification through the email pipeline.
type WorkflowEmailStatus string

const (
	WorkflowEmailStatusPending WorkflowEmailStatus = "PENDING"
	WorkflowEmailStatusSent    WorkflowEmailStatus = "SENT"
	WorkflowEmailStatusFailed  WorkflowEmailStatus = "FAILED"
)

var validWorkflowEmailStatuses = map[WorkflowEmailStatus]struct{}{
	WorkflowEmailStatusPending: {},
	WorkflowEmailStatusSent:    {},
	WorkflowEmailStatusFailed:  {},
}

func (s WorkflowEmailStatus) String() string {
	return string(s)
}

func (s WorkflowEmailStatus) IsValid() bool {
	_, ok := validWorkflowEmailStatuses[s]
	return ok
}

func ParseWorkflowEmailStatus(value string) (WorkflowEmailStatus, error) {
	status := WorkflowEmailStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid workflow email status: %q", value)
	}
	return status, nil
}
