package controllers

import (
	"net/http"

	"github.com/indiereel/backend/api/responses"
	"github.com/indiereel/backend/api/validators"
	"github.com/indiereel/backend/internal/movies"
	"github.com/indiereel/backend/pkg/logger"
)

// SubmitMovie accepts a JSON body or a multipart form with a JSON "data" field
// and an optional "poster" image.
func SubmitMovie(svc movies.Service, maxPosterBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("movie service"))
			return
		}
		actor, err := callerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req movies.CreateMovieRequest
		poster, err := decodeMovieBody(w, r, maxPosterBytes, &req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Create(r.Context(), movies.CreateInput{Actor: actor, Request: req, Poster: poster})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, detail)
	}
}

// UpdateMovie applies a partial update; selecting a package creates the gateway order.
func UpdateMovie(svc movies.Service, maxPosterBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("movie service"))
			return
		}
		actor, err := callerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		movieID, err := validators.ParseUUIDParam(r, "movieId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req movies.UpdateMovieRequest
		poster, err := decodeMovieBody(w, r, maxPosterBytes, &req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Director.Present() {
			if err := validators.ValidateStruct(&req.Director.Value); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		detail, err := svc.Update(r.Context(), movies.UpdateInput{Actor: actor, MovieID: movieID, Request: req, Poster: poster})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// ConfirmMoviePayment records a verified gateway payment and submits the movie.
func ConfirmMoviePayment(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("movie service"))
			return
		}
		actor, err := callerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		movieID, err := validators.ParseUUIDParam(r, "movieId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req movies.ConfirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.ConfirmPayment(r.Context(), movies.ConfirmPaymentInput{Actor: actor, MovieID: movieID, Request: req})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// AdminChangeMovieState is the staff moderation endpoint.
func AdminChangeMovieState(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("movie service"))
			return
		}
		actor, err := callerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		movieID, err := validators.ParseUUIDParam(r, "movieId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req movies.ChangeStateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.ChangeState(r.Context(), movies.ChangeStateInput{Actor: actor, MovieID: movieID, Request: req})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func GetMovie(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("movie service"))
			return
		}
		movieID, err := validators.ParseUUIDParam(r, "movieId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), movieID, viewerActor(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// ListMovies pages through published, approved movies.
func ListMovies(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("movie service"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListPublished(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ListSubmissions returns the caller's own submissions in every state.
func ListSubmissions(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("movie service"))
			return
		}
		actor, err := callerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListSubmissions(r.Context(), actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func ListProfileMovies(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("movie service"))
			return
		}
		profileID, err := validators.ParseUUIDParam(r, "profileId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListByProfile(r.Context(), profileID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func decodeMovieBody(w http.ResponseWriter, r *http.Request, maxPosterBytes int64, dest any) (*movies.PosterUpload, error) {
	if !validators.IsMultipart(r) {
		return nil, validators.DecodeJSONBody(r, dest)
	}
	upload, err := validators.DecodeMultipartMovie(w, r, maxPosterBytes, dest)
	if err != nil || upload == nil {
		return nil, err
	}
	return &movies.PosterUpload{
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		Body:        upload.Body,
	}, nil
}
