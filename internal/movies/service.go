package movies

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/indiereel/backend/internal/catalog"
	"github.com/indiereel/backend/internal/payments"
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
	"github.com/indiereel/backend/pkg/storage/gcs"
	"github.com/indiereel/backend/pkg/types"
)

const (
	msgDirectorRequired = "Director must be provided"
	msgPackageLocked    = "Cannot update package"
	msgPackageInvalid   = "Invalid Package Selected"
	msgDirectorRoleMiss = "Director role is not configured"
	defaultPosterPrefix = "posters"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// PosterStore persists poster images and resolves their public URLs.
type PosterStore interface {
	Upload(ctx context.Context, objectName, contentType string, r io.Reader) (*gcs.Object, error)
	PublicURL(objectName string) string
}

// Service defines the movie submission workflow and its read side.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*MovieDetail, error)
	Update(ctx context.Context, input UpdateInput) (*MovieDetail, error)
	ConfirmPayment(ctx context.Context, input ConfirmPaymentInput) (*MovieDetail, error)
	ChangeState(ctx context.Context, input ChangeStateInput) (*MovieDetail, error)
	Get(ctx context.Context, movieID uuid.UUID, viewer *Actor) (*MovieDetail, error)
	ListPublished(ctx context.Context, params pagination.Params) (pagination.Page[MovieSummary], error)
	ListSubmissions(ctx context.Context, actor Actor, params pagination.Params) (pagination.Page[Submission], error)
	ListByProfile(ctx context.Context, profileID uuid.UUID, params pagination.Params) (pagination.Page[MovieSummary], error)
	ListByContest(ctx context.Context, contestID uuid.UUID, params pagination.Params) (pagination.Page[MovieSummary], error)
}

// ServiceParams groups the workflow's collaborators.
type ServiceParams struct {
	Repo         Repository
	Catalog      catalog.Repository
	Users        users.Repository
	Payments     payments.Service
	TX           txRunner
	Outbox       outboxPublisher
	Posters      PosterStore
	PosterPrefix string
	Logger       *logger.Logger
	Metrics      *metrics.WorkflowMetrics
	Now          func() time.Time
}

type service struct {
	repo         Repository
	catalog      catalog.Repository
	users        users.Repository
	payments     payments.Service
	tx           txRunner
	outbox       outboxPublisher
	posters      PosterStore
	posterPrefix string
	logg         *logger.Logger
	metrics      *metrics.WorkflowMetrics
	now          func() time.Time
	mapper       Mapper
}

// NewService builds the movie workflow. Posters and Metrics are optional.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("movies repository required")
	case params.Catalog == nil:
		return nil, fmt.Errorf("catalog repository required")
	case params.Users == nil:
		return nil, fmt.Errorf("users repository required")
	case params.Payments == nil:
		return nil, fmt.Errorf("payments service required")
	case params.TX == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Outbox == nil:
		return nil, fmt.Errorf("outbox publisher required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	s := &service{
		repo:         params.Repo,
		catalog:      params.Catalog,
		users:        params.Users,
		payments:     params.Payments,
		tx:           params.TX,
		outbox:       params.Outbox,
		posters:      params.Posters,
		posterPrefix: params.PosterPrefix,
		logg:         params.Logger,
		metrics:      params.Metrics,
		now:          params.Now,
	}
	if s.posterPrefix == "" {
		s.posterPrefix = defaultPosterPrefix
	}
	if s.now == nil {
		s.now = nowUTC
	}
	if s.posters != nil {
		s.mapper.PosterURL = s.posters.PublicURL
	}
	return s, nil
}

// txDeps binds every repository the workflow touches to one transaction.
type txDeps struct {
	movies  Repository
	catalog catalog.Repository
	users   users.Repository
}

func (s *service) bind(tx *gorm.DB) txDeps {
	return txDeps{
		movies:  s.repo.WithTx(tx),
		catalog: s.catalog.WithTx(tx),
		users:   s.users.WithTx(tx),
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (detail *MovieDetail, err error) {
	defer func() { s.metrics.ObserveSubmission("create", err) }()

	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	req := input.Request
	title, err := NormalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithUserID(ctx, input.Actor.UserID.String())

	var movieID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		deps := s.bind(tx)

		creator, err := s.loadCreator(ctx, deps, input.Actor.UserID)
		if err != nil {
			return err
		}
		roles, err := catalog.ResolveRoles(ctx, deps.catalog, req.Roles)
		if err != nil {
			return err
		}
		directorRole, err := s.directorRole(ctx, deps)
		if err != nil {
			return err
		}
		_, otherRoles := catalog.SplitDirector(roles)
		creatorIsDirector := catalog.HasDirector(req.Roles)

		lang, err := resolveLanguage(ctx, deps.catalog, req.Language)
		if err != nil {
			return err
		}

		order := models.Order{OwnerID: creator.user.ID, Currency: string(enums.CurrencyINR)}
		if err := deps.movies.CreateOrder(ctx, &order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		movie := models.Movie{
			Title:      title,
			Link:       strings.TrimSpace(req.Link),
			Runtime:    req.Runtime,
			State:      enums.MovieStateCreated,
			Approved:   creatorIsDirector,
			LanguageID: &lang.ID,
			OrderID:    order.ID,
		}
		if err := deps.movies.CreateMovie(ctx, &movie); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create movie")
		}
		movieID = movie.ID
		ctx = s.logg.WithMovieID(ctx, movie.ID.String())

		if err := s.replaceGenres(ctx, deps, movie.ID, req.Genres); err != nil {
			return err
		}
		if err := s.attachCreatorRoles(ctx, deps, movie.ID, creator, otherRoles, directorRole.ID, creatorIsDirector); err != nil {
			return err
		}

		var director *models.Profile
		switch {
		case creatorIsDirector:
			director = creator.profile
		case req.Director != nil:
			director, err = users.EnsureProfile(ctx, deps.users, req.Director.toContact())
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve director")
			}
		}
		if director != nil {
			if err := deps.movies.ReplaceDirector(ctx, movie.ID, *director, directorRole.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach director")
			}
		}
		directorProfileID, err := s.requireSingleDirector(ctx, deps, movie.ID, directorRole.ID, director)
		if err != nil {
			return err
		}

		if err := s.storePoster(ctx, deps, movie.ID, input.Poster); err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventMovieSubmitted,
			AggregateType: enums.AggregateMovie,
			AggregateID:   movie.ID,
			Actor:         actorRef(input.Actor),
			Data: payloads.MovieSubmittedEvent{
				MovieID:           movie.ID,
				OrderID:           order.ID,
				OwnerID:           creator.user.ID,
				Title:             movie.Title,
				DirectorProfileID: directorProfileID,
				Approved:          movie.Approved,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(ctx, "movie submitted")
	return s.detail(ctx, movieID, &input.Actor)
}

func (s *service) Update(ctx context.Context, input UpdateInput) (detail *MovieDetail, err error) {
	defer func() { s.metrics.ObserveSubmission("update", err) }()

	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	req := input.Request
	ctx = s.logg.WithMovieID(s.logg.WithUserID(ctx, input.Actor.UserID.String()), input.MovieID.String())

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		deps := s.bind(tx)

		movie, err := s.lockOwnedMovie(ctx, deps, input.MovieID, input.Actor)
		if err != nil {
			return err
		}
		creator, err := s.loadCreator(ctx, deps, input.Actor.UserID)
		if err != nil {
			return err
		}
		directorRole, err := s.directorRole(ctx, deps)
		if err != nil {
			return err
		}

		updates := map[string]any{}

		if req.Package.Set {
			if err := s.selectPackage(ctx, tx, deps, movie, req.Package, updates); err != nil {
				return err
			}
		}
		if req.Language.Present() {
			lang, err := resolveLanguage(ctx, deps.catalog, req.Language.Value)
			if err != nil {
				return err
			}
			updates["language_id"] = lang.ID
		}
		if req.Title.Present() {
			title, err := NormalizeTitle(req.Title.Value)
			if err != nil {
				return err
			}
			updates["title"] = title
		}
		if req.Link.Present() {
			updates["link"] = strings.TrimSpace(req.Link.Value)
		}
		if req.Runtime.Present() {
			if req.Runtime.Value < 0 {
				return pkgerrors.Validation("runtime must not be negative")
			}
			updates["runtime"] = req.Runtime.Value
		}

		creatorIsDirector := false
		if req.Roles.Present() {
			roles, err := catalog.ResolveRoles(ctx, deps.catalog, req.Roles.Value)
			if err != nil {
				return err
			}
			_, otherRoles := catalog.SplitDirector(roles)
			creatorIsDirector = catalog.HasDirector(req.Roles.Value)
			if creatorIsDirector {
				updates["approved"] = true
			}
			if err := s.attachCreatorRoles(ctx, deps, movie.ID, creator, otherRoles, directorRole.ID, creatorIsDirector); err != nil {
				return err
			}
		}

		var director *models.Profile
		switch {
		case creatorIsDirector:
			director = creator.profile
		case req.Director.Present():
			director, err = users.EnsureProfile(ctx, deps.users, req.Director.Value.toContact())
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve director")
			}
		}
		if director != nil {
			if err := deps.movies.ReplaceDirector(ctx, movie.ID, *director, directorRole.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace director")
			}
		}

		if req.Genres.Set {
			var names []string
			if req.Genres.Present() {
				names = req.Genres.Value
			}
			if err := s.replaceGenres(ctx, deps, movie.ID, names); err != nil {
				return err
			}
		}

		if err := deps.movies.UpdateMovie(ctx, movie.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update movie")
		}
		if _, err := s.requireSingleDirector(ctx, deps, movie.ID, directorRole.ID, director); err != nil {
			return err
		}
		return s.storePoster(ctx, deps, movie.ID, input.Poster)
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(ctx, "movie updated")
	return s.detail(ctx, input.MovieID, &input.Actor)
}

// selectPackage applies the write-once package and opens the gateway order.
func (s *service) selectPackage(ctx context.Context, tx *gorm.DB, deps txDeps, movie *models.Movie, choice types.Optional[string], updates map[string]any) error {
	if movie.PackageID != nil {
		return pkgerrors.Validation(msgPackageLocked)
	}
	if !choice.Present() || strings.TrimSpace(choice.Value) == "" {
		return pkgerrors.Validation(msgPackageInvalid)
	}
	pkg, err := deps.catalog.FindPackageByName(ctx, choice.Value)
	if err != nil {
		if repo.IsNotFound(err) {
			return pkgerrors.Validation(msgPackageInvalid)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load package")
	}

	gatewayOrder, err := s.payments.CreateOrder(ctx, tx, *pkg, movie.Order.Owner)
	if err != nil {
		return err
	}
	if err := deps.movies.UpdateOrder(ctx, movie.OrderID, map[string]any{
		"gateway_order_id": gatewayOrder.ID,
		"amount":           gatewayOrder.Amount,
		"currency":         gatewayOrder.Currency,
		"receipt":          gatewayOrder.Receipt,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store gateway order")
	}
	updates["package_id"] = pkg.ID
	return nil
}

func (s *service) ConfirmPayment(ctx context.Context, input ConfirmPaymentInput) (*MovieDetail, error) {
	req := input.Request
	ctx = s.logg.WithMovieID(s.logg.WithUserID(ctx, input.Actor.UserID.String()), input.MovieID.String())

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		deps := s.bind(tx)
		movie, err := s.lockOwnedMovie(ctx, deps, input.MovieID, input.Actor)
		if err != nil {
			return err
		}
		order := movie.Order
		if order.GatewayOrderID == nil || *order.GatewayOrderID == "" {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "no pending payment for this movie")
		}
		if order.IsPaid() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "movie is already paid")
		}
		if *order.GatewayOrderID != req.GatewayOrderID {
			return pkgerrors.Validation("order does not match this movie")
		}
		if err := s.payments.VerifyPayment(req.GatewayOrderID, req.PaymentID, req.Signature); err != nil {
			return err
		}

		paidAt := s.now()
		if err := deps.movies.UpdateOrder(ctx, order.ID, map[string]any{
			"payment_id": req.PaymentID,
			"paid_at":    paidAt,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment")
		}
		if movie.State == enums.MovieStateCreated {
			if err := deps.movies.UpdateMovie(ctx, movie.ID, map[string]any{"state": enums.MovieStateSubmitted}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "advance movie state")
			}
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventMoviePaid,
			AggregateType: enums.AggregateMovie,
			AggregateID:   movie.ID,
			Actor:         actorRef(input.Actor),
			Data: payloads.MoviePaidEvent{
				MovieID:        movie.ID,
				OrderID:        order.ID,
				OwnerID:        order.OwnerID,
				GatewayOrderID: req.GatewayOrderID,
				PaymentID:      req.PaymentID,
				Amount:         order.Amount,
				Currency:       order.Currency,
				PaidAt:         paidAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(ctx, "movie payment confirmed")
	return s.detail(ctx, input.MovieID, &input.Actor)
}

func (s *service) ChangeState(ctx context.Context, input ChangeStateInput) (*MovieDetail, error) {
	if input.Actor.Role != enums.UserRoleStaff {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	req := input.Request
	target, err := enums.ParseMovieState(strings.ToUpper(strings.TrimSpace(req.State)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid state")
	}
	if req.JuryRating != nil && (*req.JuryRating < 0 || *req.JuryRating > 10) {
		return nil, pkgerrors.Validation("jury_rating must be between 0 and 10")
	}
	ctx = s.logg.WithMovieID(s.logg.WithActorRole(ctx, string(input.Actor.Role)), input.MovieID.String())

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		deps := s.bind(tx)
		movie, err := deps.movies.FindMovieForUpdate(ctx, input.MovieID)
		if err != nil {
			if repo.IsNotFound(err) {
				return pkgerrors.NotFound("movie not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load movie")
		}
		if !movie.State.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move movie from %s to %s", movie.State, target))
		}

		updates := map[string]any{"state": target}
		if req.JuryRating != nil {
			updates["jury_rating"] = *req.JuryRating
		}
		var publishOn *time.Time
		if target == enums.MovieStatePublished {
			at := s.now()
			if req.PublishOn != nil {
				at = req.PublishOn.UTC()
			}
			publishOn = &at
			updates["publish_on"] = at
		}
		if err := deps.movies.UpdateMovie(ctx, movie.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update movie state")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventMovieStateChanged,
			AggregateType: enums.AggregateMovie,
			AggregateID:   movie.ID,
			Actor:         actorRef(input.Actor),
			Data: payloads.MovieStateChangedEvent{
				MovieID:    movie.ID,
				OwnerID:    movie.Order.OwnerID,
				From:       movie.State,
				To:         target,
				JuryRating: req.JuryRating,
				PublishOn:  publishOn,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "state", target), "movie state changed")
	return s.detail(ctx, input.MovieID, nil)
}

type creatorIdentity struct {
	user    *models.User
	profile *models.Profile
}

func (s *service) loadCreator(ctx context.Context, deps txDeps, userID uuid.UUID) (*creatorIdentity, error) {
	user, err := deps.users.FindByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	profile, err := users.EnsureProfileForUser(ctx, deps.users, user, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return &creatorIdentity{user: user, profile: profile}, nil
}

func (s *service) directorRole(ctx context.Context, deps txDeps) (*models.Role, error) {
	roles, err := deps.catalog.FindRolesByNames(ctx, []string{catalog.RoleDirector})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load director role")
	}
	if len(roles) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, msgDirectorRoleMiss)
	}
	return &roles[0], nil
}

func (s *service) lockOwnedMovie(ctx context.Context, deps txDeps, movieID uuid.UUID, actor Actor) (*models.Movie, error) {
	movie, err := deps.movies.FindMovieForUpdate(ctx, movieID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.NotFound("movie not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load movie")
	}
	if movie.Order.OwnerID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the submitter can change this movie")
	}
	return movie, nil
}

func (s *service) replaceGenres(ctx context.Context, deps txDeps, movieID uuid.UUID, names []string) error {
	genres, err := deps.catalog.GetOrCreateGenres(ctx, names)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve genres")
	}
	if err := deps.movies.ReplaceGenres(ctx, movieID, genres); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach genres")
	}
	return nil
}

// attachCreatorRoles replaces the creator's non-director roles: confirmed
// credits when they direct, pending self-requests otherwise.
func (s *service) attachCreatorRoles(ctx context.Context, deps txDeps, movieID uuid.UUID, creator *creatorIdentity, roles []models.Role, directorRoleID uuid.UUID, creatorIsDirector bool) error {
	if err := deps.movies.ClearCreatorRoles(ctx, movieID, *creator.profile, directorRoleID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear creator roles")
	}
	if creatorIsDirector {
		members := make([]models.CrewMember, 0, len(roles))
		for _, role := range roles {
			members = append(members, models.CrewMember{MovieID: movieID, ProfileID: creator.profile.ID, RoleID: role.ID})
		}
		if err := deps.movies.AddCrewMembers(ctx, members); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add crew members")
		}
		return nil
	}
	requests := make([]models.CrewMemberRequest, 0, len(roles))
	for _, role := range roles {
		requests = append(requests, models.CrewMemberRequest{
			RequestorID: creator.user.ID,
			UserID:      creator.user.ID,
			MovieID:     movieID,
			RoleID:      role.ID,
			State:       enums.CrewRequestSubmitted,
		})
	}
	if err := deps.movies.AddCrewRequests(ctx, requests); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add crew requests")
	}
	return nil
}

// requireSingleDirector enforces exactly one Director credit after a write.
func (s *service) requireSingleDirector(ctx context.Context, deps txDeps, movieID, directorRoleID uuid.UUID, attached *models.Profile) (uuid.UUID, error) {
	count, err := deps.movies.CountCrewWithRole(ctx, movieID, directorRoleID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count directors")
	}
	if count != 1 {
		return uuid.Nil, pkgerrors.Validation(msgDirectorRequired)
	}
	if attached != nil {
		return attached.ID, nil
	}
	return uuid.Nil, nil
}

func (s *service) storePoster(ctx context.Context, deps txDeps, movieID uuid.UUID, upload *PosterUpload) error {
	if upload == nil || upload.Body == nil {
		return nil
	}
	if s.posters == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "poster storage is not configured")
	}
	name := posterObjectName(s.posterPrefix, movieID, *upload)
	if _, err := s.posters.Upload(ctx, name, upload.ContentType, upload.Body); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "object", name), "poster upload failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "poster upload failed")
	}
	if err := deps.movies.UpdateMovie(ctx, movieID, map[string]any{"poster": name}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store poster")
	}
	return nil
}

func actorRef(actor Actor) *outbox.ActorRef {
	return &outbox.ActorRef{UserID: actor.UserID, Role: string(actor.Role)}
}

func resolveLanguage(ctx context.Context, r catalog.Repository, name string) (*models.Language, error) {
	lang, err := r.GetOrCreateLanguage(ctx, name)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve language")
	}
	return lang, nil
}
