package validators

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/indiereel/backend/pkg/errors"
)

type reviewBody struct {
	Content *string `json:"content"`
	Rating  *int    `json:"rating" validate:"omitempty,gte=0,lte=10"`
}

type movieBody struct {
	Title string `json:"title" validate:"required"`
	Link  string `json:"link" validate:"required,url"`
}

func TestDecodeJSONBodyValidatesWithJSONNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating": 11}`))

	var body reviewBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	require.Equal(t, "must be less than or equal to 10", details["rating"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"stars": 4}`))

	var body reviewBody
	err := DecodeJSONBody(req, &body)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.Equal(t, "invalid request body", pkgerrors.As(err).Message())
}

func TestDecodeMultipartMovieWithPoster(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("data", `{"title":"pather panchali","link":"https://example.com/pp"}`))
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="poster"; filename="poster.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.True(t, IsMultipart(req))

	var body movieBody
	upload, err := DecodeMultipartMovie(httptest.NewRecorder(), req, 1024, &body)
	require.NoError(t, err)
	require.Equal(t, "pather panchali", body.Title)
	require.NotNil(t, upload)
	require.Equal(t, "poster.png", upload.Filename)
	require.Equal(t, "image/png", upload.ContentType)
}

func TestDecodeMultipartMovieRejectsNonImagePoster(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("data", `{"title":"Charulata","link":"https://example.com/c"}`))
	part, err := mw.CreateFormFile("poster", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text, not a poster"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var body movieBody
	_, err = DecodeMultipartMovie(httptest.NewRecorder(), req, 1024, &body)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.Equal(t, "poster must be an image", pkgerrors.As(err).Message())
}

func TestDecodeMultipartMovieWithoutPoster(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("data", `{"title":"Ankur","link":"https://example.com/a"}`))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var body movieBody
	upload, err := DecodeMultipartMovie(httptest.NewRecorder(), req, 1024, &body)
	require.NoError(t, err)
	require.Nil(t, upload)
	require.Equal(t, "Ankur", body.Title)
}

func TestDecodeMultipartMovieRequiresData(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var body movieBody
	_, err := DecodeMultipartMovie(httptest.NewRecorder(), req, 1024, &body)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
