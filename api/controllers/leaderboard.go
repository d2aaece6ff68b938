package controllers

import (
	"net/http"

	"github.com/indiereel/backend/api/responses"
	"github.com/indiereel/backend/api/validators"
	"github.com/indiereel/backend/internal/leaderboard"
	"github.com/indiereel/backend/pkg/logger"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

func TopCreators(svc leaderboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("leaderboard service"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultLeaderboardLimit, 1, maxLeaderboardLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.Creators(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func TopCurators(svc leaderboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("leaderboard service"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultLeaderboardLimit, 1, maxLeaderboardLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.Curators(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
