package enums

import "fmt"

// MovieState tracks a submission through payment, moderation and publishing.
type MovieState string

const (
	MovieStateCreated   MovieState = "CREATED"
	MovieStateSubmitted MovieState = "SUBMITTED"
	MovieStateApproved  MovieState = "APPROVED"
	MovieStatePublished MovieState = "PUBLISHED"
	MovieStateRejected  MovieState = "REJECTED"
)

var validMovieStates = []MovieState{
	MovieStateCreated,
	MovieStateSubmitted,
	MovieStateApproved,
	MovieStatePublished,
	MovieStateRejected,
}

// movieTransitions lists the moderation moves staff may apply.
var movieTransitions = map[MovieState][]MovieState{
	MovieStateSubmitted: {MovieStateApproved, MovieStateRejected},
	MovieStateApproved:  {MovieStatePublished},
	MovieStateRejected:  {MovieStateSubmitted},
}

// String implements fmt.Stringer.
func (s MovieState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known MovieState.
func (s MovieState) IsValid() bool {
	for _, candidate := range validMovieStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether staff moderation may move s to next.
func (s MovieState) CanTransitionTo(next MovieState) bool {
	for _, candidate := range movieTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseMovieState converts raw input into a MovieState.
func ParseMovieState(value string) (MovieState, error) {
	for _, candidate := range validMovieStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movie state %q", value)
}
