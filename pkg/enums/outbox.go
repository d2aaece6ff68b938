package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateMovie       OutboxAggregateType = "movie"
	AggregateCrewRequest OutboxAggregateType = "crew_request"
	AggregateReview      OutboxAggregateType = "review"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateMovie,
	AggregateCrewRequest,
	AggregateReview,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventMovieSubmitted     OutboxEventType = "movie.submitted"
	EventMoviePaid          OutboxEventType = "movie.paid"
	EventMovieStateChanged  OutboxEventType = "movie.state_changed"
	EventCrewRequestCreated OutboxEventType = "crew_request.created"
	EventCrewRequestDecided OutboxEventType = "crew_request.decided"
	EventReviewRated        OutboxEventType = "review.rated"
)

var validOutboxEventTypes = []OutboxEventType{
	EventMovieSubmitted,
	EventMoviePaid,
	EventMovieStateChanged,
	EventCrewRequestCreated,
	EventCrewRequestDecided,
	EventReviewRated,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
