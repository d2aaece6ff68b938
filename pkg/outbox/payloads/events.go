package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/indiereel/backend/pkg/enums"
)

// MovieSubmittedEvent is emitted when a creator submits a new movie.
type MovieSubmittedEvent struct {
	MovieID           uuid.UUID `json:"movie_id"`
	OrderID           uuid.UUID `json:"order_id"`
	OwnerID           uuid.UUID `json:"owner_id"`
	Title             string    `json:"title"`
	DirectorProfileID uuid.UUID `json:"director_profile_id"`
	Approved          bool      `json:"approved"`
}

// MoviePaidEvent confirms the submission fee was captured by the gateway.
type MoviePaidEvent struct {
	MovieID        uuid.UUID `json:"movie_id"`
	OrderID        uuid.UUID `json:"order_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	GatewayOrderID string    `json:"gateway_order_id"`
	PaymentID      string    `json:"payment_id"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	PaidAt         time.Time `json:"paid_at"`
}

// MovieStateChangedEvent reports a moderation transition.
type MovieStateChangedEvent struct {
	MovieID    uuid.UUID        `json:"movie_id"`
	OwnerID    uuid.UUID        `json:"owner_id"`
	From       enums.MovieState `json:"from"`
	To         enums.MovieState `json:"to"`
	JuryRating *float64         `json:"jury_rating,omitempty"`
	PublishOn  *time.Time       `json:"publish_on,omitempty"`
}

// CrewRequestCreatedEvent asks the notification system to alert the invited user.
type CrewRequestCreatedEvent struct {
	RequestID   uuid.UUID              `json:"request_id"`
	MovieID     uuid.UUID              `json:"movie_id"`
	RequestorID uuid.UUID              `json:"requestor_id"`
	UserID      uuid.UUID              `json:"user_id"`
	Role        string                 `json:"role"`
	State       enums.CrewRequestState `json:"state"`
}

// CrewRequestDecidedEvent is emitted once the director approves or rejects a request.
type CrewRequestDecidedEvent struct {
	RequestID uuid.UUID              `json:"request_id"`
	MovieID   uuid.UUID              `json:"movie_id"`
	UserID    uuid.UUID              `json:"user_id"`
	Role      string                 `json:"role"`
	Decision  enums.CrewDecision     `json:"decision"`
	State     enums.CrewRequestState `json:"state"`
}

// ReviewRatedEvent carries the refreshed audience rating after a review write.
type ReviewRatedEvent struct {
	ReviewID       uuid.UUID `json:"review_id"`
	MovieID        uuid.UUID `json:"movie_id"`
	AuthorID       uuid.UUID `json:"author_id"`
	Rating         *int      `json:"rating,omitempty"`
	AudienceRating *float64  `json:"audience_rating,omitempty"`
}
