package crew

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/indiereel/backend/internal/catalog"
	"github.com/indiereel/backend/internal/repo"
	"github.com/indiereel/backend/internal/users"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/logger"
	"github.com/indiereel/backend/pkg/outbox"
	"github.com/indiereel/backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service manages crew member requests on movies.
type Service interface {
	CreateRequests(ctx context.Context, requestorID uuid.UUID, req CreateRequestsRequest) ([]RequestDTO, error)
	Decide(ctx context.Context, directorID, requestID uuid.UUID, req DecisionRequest) (*RequestDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]RequestDTO, error)
}

// CreateRequestsRequest names a person and the roles they held on a movie.
type CreateRequestsRequest struct {
	MovieID uuid.UUID `json:"movie_id" validate:"required"`
	Name    string    `json:"name" validate:"required,max=200"`
	Email   string    `json:"email" validate:"required,email"`
	Roles   []string  `json:"roles" validate:"required,min=1,dive,required"`
}

// DecisionRequest is the director's answer.
type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

type RequestDTO struct {
	ID         uuid.UUID              `json:"id"`
	MovieID    uuid.UUID              `json:"movie_id"`
	MovieTitle string                 `json:"movie_title,omitempty"`
	Requestor  users.UserSummary      `json:"requestor"`
	User       users.UserSummary      `json:"user"`
	Role       string                 `json:"role"`
	State      enums.CrewRequestState `json:"state"`
	CreatedAt  time.Time              `json:"created_at"`
}

type service struct {
	repo    Repository
	users   users.Repository
	catalog catalog.Repository
	tx      txRunner
	outbox  outboxPublisher
	logg    *logger.Logger
}

func NewService(repo Repository, usersRepo users.Repository, catalogRepo catalog.Repository, tx txRunner, events outboxPublisher, logg *logger.Logger) (Service, error) {
	switch {
	case repo == nil:
		return nil, fmt.Errorf("crew repository required")
	case usersRepo == nil:
		return nil, fmt.Errorf("users repository required")
	case catalogRepo == nil:
		return nil, fmt.Errorf("catalog repository required")
	case tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case events == nil:
		return nil, fmt.Errorf("outbox publisher required")
	case logg == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, users: usersRepo, catalog: catalogRepo, tx: tx, outbox: events, logg: logg}, nil
}

// CreateRequests files one request per role for the named person. Requests
// made by the movie's director are approved on the spot.
func (s *service) CreateRequests(ctx context.Context, requestorID uuid.UUID, req CreateRequestsRequest) ([]RequestDTO, error) {
	if requestorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	ctx = s.logg.WithMovieID(s.logg.WithUserID(ctx, requestorID.String()), req.MovieID.String())

	var ids []uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		crewRepo := s.repo.WithTx(tx)
		usersRepo := s.users.WithTx(tx)

		if _, err := crewRepo.LockMovie(ctx, req.MovieID); err != nil {
			if repo.IsNotFound(err) {
				return pkgerrors.NotFound("movie not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load movie")
		}
		roles, err := catalog.ResolveRoles(ctx, s.catalog.WithTx(tx), req.Roles)
		if err != nil {
			return err
		}
		if director, _ := catalog.SplitDirector(roles); director != nil {
			return pkgerrors.Validation("Director is assigned through the movie, not a crew request")
		}

		first, last := users.SplitName(req.Name)
		user, err := users.EnsureUser(ctx, usersRepo, users.Contact{FirstName: first, LastName: last, Email: req.Email})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve crew user")
		}

		isDirector, err := s.isDirector(ctx, crewRepo, req.MovieID, requestorID)
		if err != nil {
			return err
		}
		state := enums.CrewRequestSubmitted
		var profile *models.Profile
		if isDirector {
			state = enums.CrewRequestApproved
			if profile, err = users.EnsureProfileForUser(ctx, usersRepo, user, nil); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve crew profile")
			}
		}

		for _, role := range roles {
			exists, err := crewRepo.HasCreditOrPending(ctx, req.MovieID, user.ID, role.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check crew request")
			}
			if exists {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s is already credited or pending as %s", user.Email, role.Name))
			}
			request := models.CrewMemberRequest{
				RequestorID: requestorID,
				UserID:      user.ID,
				MovieID:     req.MovieID,
				RoleID:      role.ID,
				State:       state,
			}
			if err := crewRepo.CreateRequest(ctx, &request); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create crew request")
			}
			if profile != nil {
				member := models.CrewMember{MovieID: req.MovieID, ProfileID: profile.ID, RoleID: role.ID}
				if err := crewRepo.AddCrewMember(ctx, &member); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add crew member")
				}
			}
			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventCrewRequestCreated,
				AggregateType: enums.AggregateCrewRequest,
				AggregateID:   request.ID,
				Actor:         &outbox.ActorRef{UserID: requestorID},
				Data: payloads.CrewRequestCreatedEvent{
					RequestID:   request.ID,
					MovieID:     req.MovieID,
					RequestorID: requestorID,
					UserID:      user.ID,
					Role:        role.Name,
					State:       state,
				},
			}); err != nil {
				return err
			}
			ids = append(ids, request.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]RequestDTO, 0, len(ids))
	for _, id := range ids {
		request, err := s.repo.FindRequest(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload crew request")
		}
		out = append(out, mapRequest(*request))
	}
	s.logg.Info(ctx, "crew requests created")
	return out, nil
}

// Decide applies the movie director's decision to a pending request.
func (s *service) Decide(ctx context.Context, directorID, requestID uuid.UUID, req DecisionRequest) (*RequestDTO, error) {
	decision, err := enums.ParseCrewDecision(strings.ToLower(strings.TrimSpace(req.Decision)))
	if err != nil {
		return nil, pkgerrors.Validation("decision must be approve or reject")
	}
	ctx = s.logg.WithUserID(ctx, directorID.String())

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		crewRepo := s.repo.WithTx(tx)
		request, err := crewRepo.FindRequest(ctx, requestID)
		if err != nil {
			if repo.IsNotFound(err) {
				return pkgerrors.NotFound("crew request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load crew request")
		}
		if _, err := crewRepo.LockMovie(ctx, request.MovieID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock movie")
		}
		isDirector, err := s.isDirector(ctx, crewRepo, request.MovieID, directorID)
		if err != nil {
			return err
		}
		if !isDirector {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the movie's director can decide crew requests")
		}
		if request.State != enums.CrewRequestSubmitted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "crew request already decided")
		}

		target := decision.TargetState()
		if err := crewRepo.UpdateRequestState(ctx, request.ID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update crew request")
		}
		if target == enums.CrewRequestApproved {
			profile, err := users.EnsureProfileForUser(ctx, s.users.WithTx(tx), &request.User, nil)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve crew profile")
			}
			member := models.CrewMember{MovieID: request.MovieID, ProfileID: profile.ID, RoleID: request.RoleID}
			if err := crewRepo.AddCrewMember(ctx, &member); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add crew member")
			}
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCrewRequestDecided,
			AggregateType: enums.AggregateCrewRequest,
			AggregateID:   request.ID,
			Actor:         &outbox.ActorRef{UserID: directorID},
			Data: payloads.CrewRequestDecidedEvent{
				RequestID: request.ID,
				MovieID:   request.MovieID,
				UserID:    request.UserID,
				Role:      request.Role.Name,
				Decision:  decision,
				State:     target,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	request, err := s.repo.FindRequest(ctx, requestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload crew request")
	}
	s.logg.Info(ctx, "crew request decided")
	dto := mapRequest(*request)
	return &dto, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]RequestDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list crew requests")
	}
	out := make([]RequestDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapRequest(row))
	}
	return out, nil
}

func (s *service) isDirector(ctx context.Context, r Repository, movieID, userID uuid.UUID) (bool, error) {
	directorID, err := r.FindDirectorUserID(ctx, movieID)
	if err != nil {
		if repo.IsNotFound(err) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load director")
	}
	return directorID == userID, nil
}

func mapRequest(r models.CrewMemberRequest) RequestDTO {
	dto := RequestDTO{
		ID:        r.ID,
		MovieID:   r.MovieID,
		Requestor: users.SummarizeUser(r.Requestor),
		User:      users.SummarizeUser(r.User),
		Role:      r.Role.Name,
		State:     r.State,
		CreatedAt: r.CreatedAt,
	}
	if r.Movie != nil {
		dto.MovieTitle = r.Movie.Title
	}
	return dto
}
