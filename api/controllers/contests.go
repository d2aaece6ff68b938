package controllers

import (
	"net/http"

	"github.com/indiereel/backend/api/responses"
	"github.com/indiereel/backend/api/validators"
	"github.com/indiereel/backend/internal/contests"
	"github.com/indiereel/backend/pkg/logger"
)

// ListContests returns every contest with live ones first.
func ListContests(svc contests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("contest service"))
			return
		}
		all, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, all)
	}
}

func ListContestMovies(svc contests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("contest service"))
			return
		}
		contestID, err := validators.ParseUUIDParam(r, "contestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.Movies(r.Context(), contestID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
