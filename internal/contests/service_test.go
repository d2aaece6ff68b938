package contests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiereel/backend/internal/movies"
	"github.com/indiereel/backend/pkg/db/dbtest"
	"github.com/indiereel/backend/pkg/db/models"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/pagination"
)

type stubLister struct {
	calls []uuid.UUID
}

func (s *stubLister) ListByContest(_ context.Context, contestID uuid.UUID, _ pagination.Params) (pagination.Page[movies.MovieSummary], error) {
	s.calls = append(s.calls, contestID)
	return pagination.Page[movies.MovieSummary]{Items: []movies.MovieSummary{{Title: "Entry"}}}, nil
}

func TestListPutsLiveContestsFirst(t *testing.T) {
	conn := dbtest.Open(t)
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	upcoming := models.Contest{Name: "Monsoon Shorts", StartsAt: now.AddDate(0, 1, 0), EndsAt: now.AddDate(0, 2, 0)}
	live := models.Contest{Name: "Summer Features", StartsAt: now.AddDate(0, -1, 0), EndsAt: now.AddDate(0, 0, 10)}
	ended := models.Contest{Name: "Winter Docs", StartsAt: now.AddDate(0, -6, 0), EndsAt: now.AddDate(0, -5, 0)}
	for _, c := range []*models.Contest{&upcoming, &live, &ended} {
		require.NoError(t, conn.Create(c).Error)
	}

	svc, err := NewService(NewRepository(conn), &stubLister{}, func() time.Time { return now })
	require.NoError(t, err)

	out, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "Summer Features", out[0].Name)
	assert.True(t, out[0].IsLive)
	assert.Equal(t, "Monsoon Shorts", out[1].Name)
	assert.Equal(t, "Winter Docs", out[2].Name)
}

func TestMoviesRequiresContest(t *testing.T) {
	conn := dbtest.Open(t)
	contest := models.Contest{Name: "Open Call", StartsAt: time.Now().Add(-time.Hour), EndsAt: time.Now().Add(time.Hour)}
	require.NoError(t, conn.Create(&contest).Error)

	lister := &stubLister{}
	svc, err := NewService(NewRepository(conn), lister, nil)
	require.NoError(t, err)

	page, err := svc.Movies(context.Background(), contest.ID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, []uuid.UUID{contest.ID}, lister.calls)

	_, err = svc.Movies(context.Background(), uuid.New(), pagination.Params{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Len(t, lister.calls, 1)
}
