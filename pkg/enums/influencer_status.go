package enums

import "fmt"

// InfluencerStatus tracks where an influencer sits in the partnership
// lifecycle. The workflow engine keeps it in lockstep with the active
// workflow's step.
type InfluencerStatus string

const (
	InfluencerStatusNew             InfluencerStatus = "NEW"
	InfluencerStatusContacted       InfluencerStatus = "CONTACTED"
	InfluencerStatusNegotiating     InfluencerStatus = "NEGOTIATING"
	InfluencerStatusAgreed          InfluencerStatus = "AGREED"
	InfluencerStatusPreparing       InfluencerStatus = "PREPARING"
	InfluencerStatusContractPending InfluencerStatus = "CONTRACT_PENDING"
	InfluencerStatusShipped         InfluencerStatus = "SHIPPED"
	InfluencerStatusCompleted       InfluencerStatus = "COMPLETED"
	InfluencerStatusRejected        InfluencerStatus = "REJECTED"
)

var validInfluencerStatuses = map[InfluencerStatus]struct{}{
	InfluencerStatusNew:             {},
	InfluencerStatusContacted:       {},
	InfluencerStatusNegotiating:     {},
	InfluencerStatusAgreed:          {},
	InfluencerStatusPreparing:       {},
	InfluencerStatusContractPending: {},
	InfluencerStatusShipped:         {},
	InfluencerStatusCompleted:       {},
	InfluencerStatusRejected:        {},
}

func (s InfluencerStatus) String() string {
	return string(s)
}

func (s InfluencerStatus) IsValid() bool {
	_, ok := validInfluencerStatuses[s]
	return ok
}

func ParseInfluencerStatus(value string) (InfluencerStatus, error) {
	status := InfluencerStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid influencer status: %q", value)
	}
	return status, nil
}
