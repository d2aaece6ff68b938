package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/indiereel/backend/internal/movies"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/pagination"
)

type stubMovieService struct {
	movies.Service
	created  *movies.CreateInput
	updated  *movies.UpdateInput
	poster   []byte
	listArgs pagination.Params
	err      error
}

func (s *stubMovieService) Create(_ context.Context, input movies.CreateInput) (*movies.MovieDetail, error) {
	s.created = &input
	if input.Poster != nil {
		s.poster, _ = io.ReadAll(input.Poster.Body)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &movies.MovieDetail{MovieSummary: movies.MovieSummary{ID: uuid.New(), Title: input.Request.Title}}, nil
}

func (s *stubMovieService) Update(_ context.Context, input movies.UpdateInput) (*movies.MovieDetail, error) {
	s.updated = &input
	if s.err != nil {
		return nil, s.err
	}
	return &movies.MovieDetail{MovieSummary: movies.MovieSummary{ID: input.MovieID}}, nil
}

func (s *stubMovieService) ListPublished(_ context.Context, params pagination.Params) (pagination.Page[movies.MovieSummary], error) {
	s.listArgs = params
	return pagination.Page[movies.MovieSummary]{}, s.err
}

func TestSubmitMovieRequiresUser(t *testing.T) {
	svc := &stubMovieService{}
	req := newRequest(http.MethodPost, "/api/v1/movies", strings.NewReader(`{}`), nil, nil)
	rec := httptest.NewRecorder()
	SubmitMovie(svc, 1024, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, svc.created)
}

func TestSubmitMovieJSON(t *testing.T) {
	svc := &stubMovieService{}
	userID := uuid.New()
	body := `{"title":"the   apu trilogy","link":"https://example.com/apu","runtime":120,"language":"Bengali","genres":["Drama"],"roles":["Director"]}`
	req := newRequest(http.MethodPost, "/api/v1/movies", strings.NewReader(body), &userID, nil)
	rec := httptest.NewRecorder()
	SubmitMovie(svc, 1024, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	require.Equal(t, userID, svc.created.Actor.UserID)
	require.Equal(t, []string{"Director"}, svc.created.Request.Roles)
	require.Nil(t, svc.created.Poster)
}

func TestSubmitMovieValidatesBody(t *testing.T) {
	svc := &stubMovieService{}
	userID := uuid.New()
	req := newRequest(http.MethodPost, "/api/v1/movies", strings.NewReader(`{"title":"Ankur","link":"not a url","language":"Hindi"}`), &userID, nil)
	rec := httptest.NewRecorder()
	SubmitMovie(svc, 1024, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decodeError(t, rec)
	require.Equal(t, string(pkgerrors.CodeValidation), apiErr.Code)
	require.Nil(t, svc.created)
}

func TestSubmitMovieMultipartPassesPoster(t *testing.T) {
	svc := &stubMovieService{}
	userID := uuid.New()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("data", `{"title":"Ankur","link":"https://example.com/a","language":"Hindi","roles":["Director"]}`))
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="poster"; filename="ankur.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := newRequest(http.MethodPost, "/api/v1/movies", buf, &userID, nil)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	SubmitMovie(svc, 1024, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created.Poster)
	require.Equal(t, "ankur.jpg", svc.created.Poster.Filename)
	require.Equal(t, "jpeg-bytes", string(svc.poster))
}

func TestSubmitMovieSurfacesWorkflowErrors(t *testing.T) {
	svc := &stubMovieService{err: pkgerrors.Validation("Director must be provided")}
	userID := uuid.New()
	body := `{"title":"Ankur","link":"https://example.com/a","language":"Hindi","roles":["Actor"]}`
	req := newRequest(http.MethodPost, "/api/v1/movies", strings.NewReader(body), &userID, nil)
	rec := httptest.NewRecorder()
	SubmitMovie(svc, 1024, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Director must be provided", decodeError(t, rec).Message)
}

func TestUpdateMovieParsesOptionalFields(t *testing.T) {
	svc := &stubMovieService{}
	userID := uuid.New()
	movieID := uuid.New()
	req := newRequest(http.MethodPatch, "/api/v1/movies/"+movieID.String(), strings.NewReader(`{"package":"Premium","runtime":null}`), &userID, map[string]string{"movieId": movieID.String()})
	rec := httptest.NewRecorder()
	UpdateMovie(svc, 1024, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, movieID, svc.updated.MovieID)
	require.True(t, svc.updated.Request.Package.Present())
	require.Equal(t, "Premium", svc.updated.Request.Package.Value)
	require.False(t, svc.updated.Request.Title.Set)
	require.True(t, svc.updated.Request.Runtime.Null)
}

func TestUpdateMovieValidatesDirector(t *testing.T) {
	svc := &stubMovieService{}
	userID := uuid.New()
	movieID := uuid.New()
	req := newRequest(http.MethodPatch, "/api/v1/movies/"+movieID.String(), strings.NewReader(`{"director":{"first_name":"Mira","email":"not-an-email"}}`), &userID, map[string]string{"movieId": movieID.String()})
	rec := httptest.NewRecorder()
	UpdateMovie(svc, 1024, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Nil(t, svc.updated)
}

func TestUpdateMovieRejectsBadID(t *testing.T) {
	svc := &stubMovieService{}
	userID := uuid.New()
	req := newRequest(http.MethodPatch, "/api/v1/movies/nope", strings.NewReader(`{}`), &userID, map[string]string{"movieId": "nope"})
	rec := httptest.NewRecorder()
	UpdateMovie(svc, 1024, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListMoviesPassesPagination(t *testing.T) {
	svc := &stubMovieService{}
	req := newRequest(http.MethodGet, "/api/v1/movies?limit=5&cursor=abc", nil, nil, nil)
	rec := httptest.NewRecorder()
	ListMovies(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, pagination.Params{Limit: 5, Cursor: "abc"}, svc.listArgs)
}
