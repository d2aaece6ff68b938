package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/indiereel/backend/api/controllers"
	"github.com/indiereel/backend/api/middleware"
	"github.com/indiereel/backend/internal/catalog"
	"github.com/indiereel/backend/internal/contests"
	"github.com/indiereel/backend/internal/crew"
	"github.com/indiereel/backend/internal/leaderboard"
	"github.com/indiereel/backend/internal/lists"
	"github.com/indiereel/backend/internal/movies"
	"github.com/indiereel/backend/internal/reviews"
	"github.com/indiereel/backend/pkg/config"
	"github.com/indiereel/backend/pkg/enums"
	"github.com/indiereel/backend/pkg/logger"
	pkgredis "github.com/indiereel/backend/pkg/redis"
)

// Dependencies are the clients and services the API routes are built from.
// A nil service makes its routes answer 503.
type Dependencies struct {
	DB      controllers.Pinger
	Redis   controllers.Pinger
	Storage controllers.Pinger

	Idempotency pkgredis.IdempotencyStore
	RateLimiter middleware.RateLimiterStore
	Gatherer    prometheus.Gatherer

	Movies      movies.Service
	Reviews     reviews.Service
	Crew        crew.Service
	Lists       lists.Service
	Contests    contests.Service
	Leaderboard leaderboard.Service
	Catalog     catalog.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	idempotent := middleware.Idempotency(deps.Idempotency, cfg.Redis.IdempotencyTTL, logg)
	idempotentPayment := middleware.Idempotency(deps.Idempotency, middleware.PaymentIdempotencyTTL(cfg.Redis.IdempotencyTTL), logg)
	reviewWrites := middleware.RateLimit(
		middleware.NewRateLimitPolicy("review_write", cfg.Review.WriteWindow, cfg.Review.WriteLimit),
		deps.RateLimiter,
		logg,
	)
	maxPoster := cfg.GCS.MaxPosterBytes

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":      deps.DB,
			"redis":   deps.Redis,
			"storage": deps.Storage,
		}))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))

			r.Get("/movies", controllers.ListMovies(deps.Movies, logg))
			r.Get("/movies/{movieId}", controllers.GetMovie(deps.Movies, logg))
			r.Get("/movies/{movieId}/reviews", controllers.ListMovieReviews(deps.Reviews, logg))
			r.Get("/profiles/{profileId}/movies", controllers.ListProfileMovies(deps.Movies, logg))

			r.Get("/contests", controllers.ListContests(deps.Contests, logg))
			r.Get("/contests/{contestId}/movies", controllers.ListContestMovies(deps.Contests, logg))

			r.Get("/leaderboard/creators", controllers.TopCreators(deps.Leaderboard, logg))
			r.Get("/leaderboard/curators", controllers.TopCurators(deps.Leaderboard, logg))

			r.Get("/packages", controllers.ListPackages(deps.Catalog, logg))
			r.Get("/roles", controllers.ListRoles(deps.Catalog, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.With(idempotent).Post("/movies", controllers.SubmitMovie(deps.Movies, maxPoster, logg))
			r.With(idempotentPayment).Patch("/movies/{movieId}", controllers.UpdateMovie(deps.Movies, maxPoster, logg))
			r.With(idempotentPayment).Post("/movies/{movieId}/payment", controllers.ConfirmMoviePayment(deps.Movies, logg))
			r.Get("/submissions", controllers.ListSubmissions(deps.Movies, logg))

			r.With(reviewWrites).Post("/movies/{movieId}/reviews", controllers.CreateReview(deps.Reviews, logg))
			r.With(reviewWrites).Patch("/reviews/{reviewId}", controllers.UpdateReview(deps.Reviews, logg))

			r.Get("/crew-requests", controllers.ListCrewRequests(deps.Crew, logg))
			r.With(idempotent).Post("/crew-requests", controllers.CreateCrewRequests(deps.Crew, logg))
			r.With(idempotent).Post("/crew-requests/{requestId}/decision", controllers.DecideCrewRequest(deps.Crew, logg))

			r.Get("/lists", controllers.ListMyLists(deps.Lists, logg))
			r.Post("/lists", controllers.CreateList(deps.Lists, logg))
			r.Post("/lists/{listId}/movies/{movieId}", controllers.AddListMovie(deps.Lists, logg))
			r.Delete("/lists/{listId}/movies/{movieId}", controllers.RemoveListMovie(deps.Lists, logg))

			r.Post("/movies/{movieId}/recommend", controllers.RecommendMovie(deps.Lists, logg))
			r.Delete("/movies/{movieId}/recommend", controllers.UnrecommendMovie(deps.Lists, logg))
			r.Post("/movies/{movieId}/watchlist", controllers.WatchlistMovie(deps.Lists, logg))
			r.Delete("/movies/{movieId}/watchlist", controllers.UnwatchlistMovie(deps.Lists, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.UserRoleStaff, logg))
		r.Post("/movies/{movieId}/state", controllers.AdminChangeMovieState(deps.Movies, logg))
	})

	return r
}
