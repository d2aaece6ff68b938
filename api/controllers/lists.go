package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/indiereel/backend/api/responses"
	"github.com/indiereel/backend/api/validators"
	"github.com/indiereel/backend/internal/lists"
	"github.com/indiereel/backend/pkg/logger"
)

func CreateList(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("list service"))
			return
		}
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req lists.CreateListRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Create(r.Context(), userID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, list)
	}
}

// ListMyLists returns the caller's lists, provisioning the watchlist and
// recommendation list on first use.
func ListMyLists(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("list service"))
			return
		}
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mine, err := svc.ListMine(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mine)
	}
}

func AddListMovie(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
	return listMovieHandler(svc, logg, func(svc lists.Service) listMovieFunc { return svc.AddMovie })
}

func RemoveListMovie(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
	return listMovieHandler(svc, logg, func(svc lists.Service) listMovieFunc { return svc.RemoveMovie })
}

func RecommendMovie(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
	return movieListHandler(svc, logg, func(svc lists.Service) movieListFunc { return svc.Recommend })
}

func UnrecommendMovie(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
	return movieListHandler(svc, logg, func(svc lists.Service) movieListFunc { return svc.Unrecommend })
}

func WatchlistMovie(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
	return movieListHandler(svc, logg, func(svc lists.Service) movieListFunc { return svc.AddToWatchlist })
}

func UnwatchlistMovie(svc lists.Service, logg *logger.Logger) http.HandlerFunc {
	return movieListHandler(svc, logg, func(svc lists.Service) movieListFunc { return svc.RemoveFromWatchlist })
}

type listMovieFunc func(ctx context.Context, ownerID, listID, movieID uuid.UUID) error

type movieListFunc func(ctx context.Context, userID, movieID uuid.UUID) error

// listMovieHandler serves /lists/{listId}/movies/{movieId}.
func listMovieHandler(svc lists.Service, logg *logger.Logger, op func(lists.Service) listMovieFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("list service"))
			return
		}
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listID, err := validators.ParseUUIDParam(r, "listId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		movieID, err := validators.ParseUUIDParam(r, "movieId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := op(svc)(r.Context(), userID, listID, movieID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// movieListHandler serves the per-movie recommend and watchlist toggles.
func movieListHandler(svc lists.Service, logg *logger.Logger, op func(lists.Service) movieListFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("list service"))
			return
		}
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		movieID, err := validators.ParseUUIDParam(r, "movieId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := op(svc)(r.Context(), userID, movieID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
