package reviews

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/indiereel/backend/pkg/db"
	"github.com/indiereel/backend/pkg/db/dbtest"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/logger"
	"github.com/indiereel/backend/pkg/outbox"
	"github.com/indiereel/backend/pkg/pagination"
	"github.com/indiereel/backend/pkg/types"
)

type fixture struct {
	conn   *gorm.DB
	svc    Service
	movie  models.Movie
	author models.User
	other  models.User
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.Open(t)
	owner, _ := dbtest.SeedUser(t, conn, "owner@example.com", "Mira", "Nair")
	author, _ := dbtest.SeedUser(t, conn, "critic@example.com", "Pauline", "Kael")
	other, _ := dbtest.SeedUser(t, conn, "viewer@example.com", "Roger", "Ebert")
	movie := dbtest.SeedMovie(t, conn, owner, "Salaam Bombay")

	logg := logger.New(logger.Options{ServiceName: "reviews-test", Output: &bytes.Buffer{}})
	f := &fixture{
		conn:   conn,
		movie:  movie,
		author: author,
		other:  other,
		now:    time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}
	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(conn),
		TX:     db.NewFromConn(conn),
		Outbox: outbox.NewService(outbox.NewRepository(conn), logg),
		Logger: logg,
		Now:    func() time.Time { return f.now },
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) rate(t *testing.T, author models.User, rating int) *ReviewDTO {
	t.Helper()
	dto, err := f.svc.Create(context.Background(), CreateInput{
		AuthorID: author.ID,
		MovieID:  f.movie.ID,
		Request:  CreateReviewRequest{Rating: &rating},
	})
	require.NoError(t, err)
	return dto
}

func (f *fixture) audienceRating(t *testing.T) *float64 {
	t.Helper()
	var movie models.Movie
	require.NoError(t, f.conn.First(&movie, "id = ?", f.movie.ID).Error)
	return movie.AudienceRating
}

func TestCreateStampsRatedAtAndAverages(t *testing.T) {
	f := newFixture(t)

	dto := f.rate(t, f.author, 8)
	require.NotNil(t, dto.Rating)
	assert.Equal(t, 8, *dto.Rating)
	require.NotNil(t, dto.RatedAt)
	assert.True(t, dto.RatedAt.Equal(f.now))
	assert.Equal(t, "Pauline", dto.Author.FirstName)

	f.rate(t, f.other, 5)
	avg := f.audienceRating(t)
	require.NotNil(t, avg)
	assert.InDelta(t, 6.5, *avg, 0.0001)

	var events int64
	require.NoError(t, f.conn.Model(&models.OutboxEvent{}).
		Where("event_type = ?", enums.EventReviewRated).Count(&events).Error)
	assert.EqualValues(t, 2, events)
}

func TestCreateContentOnlyLeavesAverageUntouched(t *testing.T) {
	f := newFixture(t)
	content := "  Luminous.  "

	dto, err := f.svc.Create(context.Background(), CreateInput{
		AuthorID: f.author.ID,
		MovieID:  f.movie.ID,
		Request:  CreateReviewRequest{Content: &content},
	})
	require.NoError(t, err)
	require.NotNil(t, dto.Content)
	assert.Equal(t, "Luminous.", *dto.Content)
	assert.Nil(t, dto.Rating)
	assert.Nil(t, dto.RatedAt)
	assert.Nil(t, f.audienceRating(t))
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{AuthorID: f.author.ID, MovieID: f.movie.ID})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, msgContentOrRating, pkgerrors.As(err).Message())

	high := 11
	_, err = f.svc.Create(ctx, CreateInput{AuthorID: f.author.ID, MovieID: f.movie.ID, Request: CreateReviewRequest{Rating: &high}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	f.rate(t, f.author, 7)
	again := 3
	_, err = f.svc.Create(ctx, CreateInput{AuthorID: f.author.ID, MovieID: f.movie.ID, Request: CreateReviewRequest{Rating: &again}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestCreateUnknownMovie(t *testing.T) {
	f := newFixture(t)
	rating := 4
	_, err := f.svc.Create(context.Background(), CreateInput{
		AuthorID: f.author.ID,
		MovieID:  f.author.ID,
		Request:  CreateReviewRequest{Rating: &rating},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateRatingFrozenInsideWindow(t *testing.T) {
	f := newFixture(t)
	created := f.rate(t, f.author, 6)

	f.now = f.now.Add(5 * time.Second)
	_, err := f.svc.Update(context.Background(), UpdateInput{
		AuthorID: f.author.ID,
		ReviewID: created.ID,
		Request:  UpdateReviewRequest{Rating: types.Some(9)},
	})
	require.Error(t, err)
	assert.Equal(t, msgRatingFrozen, pkgerrors.As(err).Message())

	var stored models.MovieRateReview
	require.NoError(t, f.conn.First(&stored, "id = ?", created.ID).Error)
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 6, *stored.Rating)
	avg := f.audienceRating(t)
	require.NotNil(t, avg)
	assert.InDelta(t, 6.0, *avg, 0.0001)
}

func TestUpdateRatingFrozenAtWindowBoundary(t *testing.T) {
	f := newFixture(t)
	created := f.rate(t, f.author, 6)
	update := UpdateInput{
		AuthorID: f.author.ID,
		ReviewID: created.ID,
		Request:  UpdateReviewRequest{Rating: types.Some(8)},
	}

	f.now = f.now.Add(DefaultFreezeWindow)
	_, err := f.svc.Update(context.Background(), update)
	require.Error(t, err)
	assert.Equal(t, msgRatingFrozen, pkgerrors.As(err).Message())

	f.now = f.now.Add(time.Millisecond)
	dto, err := f.svc.Update(context.Background(), update)
	require.NoError(t, err)
	require.NotNil(t, dto.Rating)
	assert.Equal(t, 8, *dto.Rating)
}

func TestUpdateRatingAfterWindow(t *testing.T) {
	f := newFixture(t)
	created := f.rate(t, f.author, 6)

	f.now = f.now.Add(10 * time.Second)
	dto, err := f.svc.Update(context.Background(), UpdateInput{
		AuthorID: f.author.ID,
		ReviewID: created.ID,
		Request:  UpdateReviewRequest{Rating: types.Some(9)},
	})
	require.NoError(t, err)
	require.NotNil(t, dto.Rating)
	assert.Equal(t, 9, *dto.Rating)
	require.NotNil(t, dto.RatedAt)
	assert.True(t, dto.RatedAt.Equal(f.now))
	require.NotNil(t, dto.AudienceRating)
	assert.InDelta(t, 9.0, float64(*dto.AudienceRating), 0.0001)
}

func TestUpdateSameRatingOrContentInsideWindow(t *testing.T) {
	f := newFixture(t)
	created := f.rate(t, f.author, 6)
	f.now = f.now.Add(2 * time.Second)

	dto, err := f.svc.Update(context.Background(), UpdateInput{
		AuthorID: f.author.ID,
		ReviewID: created.ID,
		Request: UpdateReviewRequest{
			Rating:  types.Some(6),
			Content: types.Some("Second look"),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, dto.Content)
	assert.Equal(t, "Second look", *dto.Content)
	require.NotNil(t, dto.RatedAt)
	assert.True(t, dto.RatedAt.Equal(created.RatedAt.UTC()))
}

func TestUpdateAuthorOnly(t *testing.T) {
	f := newFixture(t)
	created := f.rate(t, f.author, 6)
	f.now = f.now.Add(time.Minute)

	_, err := f.svc.Update(context.Background(), UpdateInput{
		AuthorID: f.other.ID,
		ReviewID: created.ID,
		Request:  UpdateReviewRequest{Rating: types.Some(2)},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = f.svc.Update(context.Background(), UpdateInput{AuthorID: f.author.ID, ReviewID: created.ID})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListByMovie(t *testing.T) {
	f := newFixture(t)
	f.rate(t, f.author, 6)
	f.rate(t, f.other, 8)

	page, err := f.svc.ListByMovie(context.Background(), f.movie.ID, pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.NotEmpty(t, page.NextCursor)

	next, err := f.svc.ListByMovie(context.Background(), f.movie.ID, pagination.Params{Limit: 1, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, next.Items, 1)
	assert.NotEqual(t, page.Items[0].ID, next.Items[0].ID)
	assert.Empty(t, next.NextCursor)

	_, err = f.svc.ListByMovie(context.Background(), f.movie.ID, pagination.Params{Cursor: "%%%"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
}

func TestRefreshAudienceRatingRepairsDrift(t *testing.T) {
	f := newFixture(t)
	f.rate(t, f.author, 4)
	f.rate(t, f.other, 8)
	require.NoError(t, f.conn.Model(&models.Movie{}).Where("id = ?", f.movie.ID).Update("audience_rating", 1.0).Error)

	ids, err := f.svc.RatedMovieIDs(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.NoError(t, f.svc.RefreshAudienceRating(context.Background(), ids[0]))

	avg := f.audienceRating(t)
	require.NotNil(t, avg)
	assert.InDelta(t, 6.0, *avg, 0.0001)
}
