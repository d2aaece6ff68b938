package reviews

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/indiereel/backend/internal/repo"
	"github.com/indiereel/backend/internal/users"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/logger"
	"github.com/indiereel/backend/pkg/metrics"
	"github.com/indiereel/backend/pkg/outbox"
	"github.com/indiereel/backend/pkg/outbox/payloads"
	"github.com/indiereel/backend/pkg/pagination"
	"github.com/indiereel/backend/pkg/types"
)

const (
	msgContentOrRating = "At least one of `content` or `rating` should be provided"
	msgRatingFrozen    = "Rating is now frozen"

	// DefaultFreezeWindow is how long a rating stays locked after it is written.
	// A change is accepted only once strictly more than the window has passed.
	DefaultFreezeWindow = 9 * time.Second

	minRating = 0
	maxRating = 10
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the rating and review workflow.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ReviewDTO, error)
	Update(ctx context.Context, input UpdateInput) (*ReviewDTO, error)
	ListByMovie(ctx context.Context, movieID uuid.UUID, params pagination.Params) (pagination.Page[ReviewDTO], error)
	RatedMovieIDs(ctx context.Context) ([]uuid.UUID, error)
	RefreshAudienceRating(ctx context.Context, movieID uuid.UUID) error
}

// CreateInput is a new review by the caller on a movie.
type CreateInput struct {
	AuthorID uuid.UUID
	MovieID  uuid.UUID
	Request  CreateReviewRequest
}

// UpdateInput edits one of the caller's reviews.
type UpdateInput struct {
	AuthorID uuid.UUID
	ReviewID uuid.UUID
	Request  UpdateReviewRequest
}

// CreateReviewRequest is the JSON body of a new review.
type CreateReviewRequest struct {
	Content *string `json:"content"`
	Rating  *int    `json:"rating" validate:"omitempty,gte=0,lte=10"`
}

// UpdateReviewRequest is a partial review update.
type UpdateReviewRequest struct {
	Content types.Optional[string] `json:"content" validate:"-"`
	Rating  types.Optional[int]    `json:"rating" validate:"-"`
}

// ReviewDTO is the client shape of a review.
type ReviewDTO struct {
	ID             uuid.UUID         `json:"id"`
	MovieID        uuid.UUID         `json:"movie_id"`
	Author         users.UserSummary `json:"author"`
	Content        *string           `json:"content,omitempty"`
	Rating         *int              `json:"rating"`
	RatedAt        *time.Time        `json:"rated_at,omitempty"`
	AudienceRating *types.OneDecimal `json:"audience_rating,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ServiceParams groups the review workflow's collaborators.
type ServiceParams struct {
	Repo         Repository
	TX           txRunner
	Outbox       outboxPublisher
	Logger       *logger.Logger
	Metrics      *metrics.WorkflowMetrics
	FreezeWindow time.Duration
	Now          func() time.Time
}

type service struct {
	repo         Repository
	tx           txRunner
	outbox       outboxPublisher
	logg         *logger.Logger
	metrics      *metrics.WorkflowMetrics
	freezeWindow time.Duration
	now          func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("reviews repository required")
	case params.TX == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Outbox == nil:
		return nil, fmt.Errorf("outbox publisher required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	s := &service{
		repo:         params.Repo,
		tx:           params.TX,
		outbox:       params.Outbox,
		logg:         params.Logger,
		metrics:      params.Metrics,
		freezeWindow: params.FreezeWindow,
		now:          params.Now,
	}
	if s.freezeWindow <= 0 {
		s.freezeWindow = DefaultFreezeWindow
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (dto *ReviewDTO, err error) {
	defer func() { s.metrics.ObserveReview("create", err) }()

	req := input.Request
	if input.AuthorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if req.Content == nil && req.Rating == nil {
		return nil, pkgerrors.Validation(msgContentOrRating)
	}
	if err := checkRating(req.Rating); err != nil {
		return nil, err
	}
	ctx = s.logg.WithMovieID(s.logg.WithUserID(ctx, input.AuthorID.String()), input.MovieID.String())

	var reviewID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if _, err := r.LockMovie(ctx, input.MovieID); err != nil {
			if repo.IsNotFound(err) {
				return pkgerrors.NotFound("movie not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load movie")
		}
		if _, err := r.FindByAuthorAndMovie(ctx, input.AuthorID, input.MovieID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this movie")
		} else if !repo.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review")
		}

		review := models.MovieRateReview{
			AuthorID: input.AuthorID,
			MovieID:  input.MovieID,
			Content:  trimmed(req.Content),
			Rating:   req.Rating,
		}
		if review.Rating != nil {
			at := s.now()
			review.RatedAt = &at
		}
		if err := r.Create(ctx, &review); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
		}
		reviewID = review.ID
		return s.recompute(ctx, tx, r, review)
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(ctx, "review created")
	return s.load(ctx, reviewID)
}

func (s *service) Update(ctx context.Context, input UpdateInput) (dto *ReviewDTO, err error) {
	defer func() { s.metrics.ObserveReview("update", err) }()

	req := input.Request
	if !req.Content.Set && !req.Rating.Set {
		return nil, pkgerrors.Validation(msgContentOrRating)
	}
	if err := checkRating(req.Rating.Ptr()); err != nil {
		return nil, err
	}
	ctx = s.logg.WithUserID(ctx, input.AuthorID.String())

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		review, err := r.FindByID(ctx, input.ReviewID)
		if err != nil {
			if repo.IsNotFound(err) {
				return pkgerrors.NotFound("review not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review")
		}
		if review.AuthorID != input.AuthorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the author can edit this review")
		}
		if _, err := r.LockMovie(ctx, review.MovieID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock movie")
		}

		if req.Rating.Present() && !sameRating(review.Rating, req.Rating.Value) {
			now := s.now()
			if review.Rating != nil && review.RatedAt != nil && now.Sub(*review.RatedAt) <= s.freezeWindow {
				return pkgerrors.Validation(msgRatingFrozen)
			}
			rating := req.Rating.Value
			review.Rating = &rating
			review.RatedAt = &now
		}
		if req.Content.Set {
			review.Content = trimmed(req.Content.Ptr())
		}

		if err := r.Save(ctx, review); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update review")
		}
		return s.recompute(ctx, tx, r, *review)
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(ctx, "review updated")
	return s.load(ctx, input.ReviewID)
}

// recompute refreshes the movie's audience rating from every non-null rating.
func (s *service) recompute(ctx context.Context, tx *gorm.DB, r Repository, review models.MovieRateReview) error {
	avg, err := r.AverageRating(ctx, review.MovieID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "average rating")
	}
	if err := r.SetAudienceRating(ctx, review.MovieID, avg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store audience rating")
	}
	if review.Rating == nil {
		return nil
	}
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventReviewRated,
		AggregateType: enums.AggregateReview,
		AggregateID:   review.ID,
		Actor:         &outbox.ActorRef{UserID: review.AuthorID},
		Data: payloads.ReviewRatedEvent{
			ReviewID:       review.ID,
			MovieID:        review.MovieID,
			AuthorID:       review.AuthorID,
			Rating:         review.Rating,
			AudienceRating: avg,
		},
	})
}

func (s *service) RatedMovieIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.RatedMovieIDs(ctx)
}

// RefreshAudienceRating recomputes one movie's audience rating without
// emitting events; the scheduled repair pass uses it.
func (s *service) RefreshAudienceRating(ctx context.Context, movieID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if _, err := r.LockMovie(ctx, movieID); err != nil {
			return fmt.Errorf("lock movie %s: %w", movieID, err)
		}
		avg, err := r.AverageRating(ctx, movieID)
		if err != nil {
			return fmt.Errorf("average rating %s: %w", movieID, err)
		}
		return r.SetAudienceRating(ctx, movieID, avg)
	})
}

func (s *service) load(ctx context.Context, reviewID uuid.UUID) (*ReviewDTO, error) {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload review")
	}
	movie, err := s.repo.FindMovie(ctx, review.MovieID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload movie")
	}
	dto := mapReview(*review)
	dto.AudienceRating = types.RatingPtr(movie.AudienceRating)
	return &dto, nil
}

func (s *service) ListByMovie(ctx context.Context, movieID uuid.UUID, params pagination.Params) (pagination.Page[ReviewDTO], error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return pagination.Page[ReviewDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination cursor")
	}
	rows, err := s.repo.ListByMovie(ctx, movieID, params)
	if err != nil {
		return pagination.Page[ReviewDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	page := pagination.Trim(rows, params.Limit, func(r models.MovieRateReview) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
	})
	items := make([]ReviewDTO, 0, len(page.Items))
	for _, r := range page.Items {
		items = append(items, mapReview(r))
	}
	return pagination.Page[ReviewDTO]{Items: items, NextCursor: page.NextCursor}, nil
}

func mapReview(r models.MovieRateReview) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		MovieID:   r.MovieID,
		Author:    users.SummarizeUser(r.Author),
		Content:   r.Content,
		Rating:    r.Rating,
		RatedAt:   r.RatedAt,
		CreatedAt: r.CreatedAt,
	}
}

func checkRating(rating *int) error {
	if rating == nil {
		return nil
	}
	if *rating < minRating || *rating > maxRating {
		return pkgerrors.Validation(fmt.Sprintf("rating must be between %d and %d", minRating, maxRating))
	}
	return nil
}

func sameRating(current *int, next int) bool {
	return current != nil && *current == next
}

func trimmed(content *string) *string {
	if content == nil {
		return nil
	}
	v := strings.TrimSpace(*content)
	return &v
}
