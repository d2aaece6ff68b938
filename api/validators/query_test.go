package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/pagination"
)

func TestParsePaginationDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil)
	params, err := ParsePagination(req)
	require.NoError(t, err)
	require.Equal(t, pagination.DefaultLimit, params.Limit)
	require.Empty(t, params.Cursor)
}

func TestParsePaginationRejectsOutOfRangeLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies?limit=500", nil)
	_, err := ParsePagination(req)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/movies?limit=ten", nil)
	_, err = ParsePagination(req)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParsePaginationTrimsCursor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies?limit=5&cursor=+abc+", nil)
	params, err := ParsePagination(req)
	require.NoError(t, err)
	require.Equal(t, 5, params.Limit)
	require.Equal(t, "abc", params.Cursor)
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "movieId", id.String())
	got, err := ParseUUIDParam(req, "movieId")
	require.NoError(t, err)
	require.Equal(t, id, got)

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "movieId", "not-a-uuid")
	_, err = ParseUUIDParam(req, "movieId")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestSanitizeStringIsRuneSafe(t *testing.T) {
	require.Equal(t, "abc", SanitizeString("  a\x00b\tc  ", 0))
	require.Equal(t, "Amélie", SanitizeString("Amélie Poulain", 6))
	require.Equal(t, "日本", SanitizeString("日本映画", 2))
}
