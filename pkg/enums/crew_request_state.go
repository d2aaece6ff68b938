package enums

import "fmt"

// CrewRequestState is the lifecycle of a pending crew credit.
type CrewRequestState string

const (
	CrewRequestSubmitted CrewRequestState = "SUBMITTED"
	CrewRequestApproved  CrewRequestState = "APPROVED"
	CrewRequestRejected  CrewRequestState = "REJECTED"
)

var validCrewRequestStates = []CrewRequestState{
	CrewRequestSubmitted,
	CrewRequestApproved,
	CrewRequestRejected,
}

// String implements fmt.Stringer.
func (s CrewRequestState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CrewRequestState.
func (s CrewRequestState) IsValid() bool {
	for _, candidate := range validCrewRequestStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCrewRequestState converts raw input into a CrewRequestState.
func ParseCrewRequestState(value string) (CrewRequestState, error) {
	for _, candidate := range validCrewRequestStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid crew request state %q", value)
}

// CrewDecision is the director's answer to a crew request.
type CrewDecision string

const (
	CrewDecisionApprove CrewDecision = "approve"
	CrewDecisionReject  CrewDecision = "reject"
)

// ParseCrewDecision converts raw input into a CrewDecision.
func ParseCrewDecision(value string) (CrewDecision, error) {
	switch CrewDecision(value) {
	case CrewDecisionApprove, CrewDecisionReject:
		return CrewDecision(value), nil
	}
	return "", fmt.Errorf("invalid crew decision %q", value)
}

// TargetState maps the decision onto the request state it produces.
func (d CrewDecision) TargetState() CrewRequestState {
	if d == CrewDecisionApprove {
		return CrewRequestApproved
	}
	return CrewRequestRejected
}
