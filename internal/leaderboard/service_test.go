package leaderboard

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiereel/backend/pkg/db"
	"github.com/indiereel/backend/pkg/db/dbtest"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
	"github.com/indiereel/backend/pkg/logger"
)

type memoryCache struct {
	values map[string]string
	gets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.gets++
	v, ok := m.values[key]
	if !ok {
		return "", errors.New("miss")
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memoryCache) CacheKey(parts ...string) string {
	return "ir:cache:" + strings.Join(parts, ":")
}

func TestSnapshotAndRead(t *testing.T) {
	conn := dbtest.Open(t)
	roles := dbtest.SeedRoles(t, conn, "Director")
	director, directorProfile := dbtest.SeedUser(t, conn, "director@example.com", "Aparna", "Sen")
	critic, _ := dbtest.SeedUser(t, conn, "critic@example.com", "Khalid", "Mohamed")

	jury := 7.0
	audience := 8.0
	movie := dbtest.SeedMovie(t, conn, director, "36 Chowringhee Lane", func(m *models.Movie) {
		m.Approved = true
		m.AudienceRating = &audience
		m.JuryRating = &jury
		m.RecommendCount = 2
	})
	dbtest.SeedCrew(t, conn, movie.ID, directorProfile, roles["Director"])

	rating := 8
	require.NoError(t, conn.Omit("Author").Create(&models.MovieRateReview{AuthorID: critic.ID, MovieID: movie.ID, Rating: &rating}).Error)
	require.NoError(t, conn.Omit("Owner", "Movies").Create(&models.MovieList{
		OwnerID: critic.ID, Name: "Recommendations", Kind: enums.MovieListRecommendation, Likes: 4,
	}).Error)

	cache := newMemoryCache()
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(conn),
		TX:     db.NewFromConn(conn),
		Cache:  cache,
		Logger: logger.New(logger.Options{ServiceName: "leaderboard-test", Output: &bytes.Buffer{}}),
		Size:   10,
		Now:    func() time.Time { return now },
	})
	require.NoError(t, err)

	result, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Creators)
	assert.Equal(t, 1, result.Curators)

	creators, err := svc.Creators(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, creators, 1)
	assert.Equal(t, 1, creators[0].Rank)
	assert.InDelta(t, 82.0, creators[0].Score, 0.001)
	assert.Equal(t, "Aparna", creators[0].User.FirstName)

	curators, err := svc.Curators(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, curators, 1)
	assert.InDelta(t, 90.0, curators[0].Match, 0.001)
	assert.InDelta(t, 50.0, curators[0].Score, 0.001)
	assert.Equal(t, 4, curators[0].LikesOnRecommend)

	// Served from cache even after the rows are gone.
	require.NoError(t, conn.Where("1 = 1").Delete(&models.TopCreator{}).Error)
	cached, err := svc.Creators(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	// A new snapshot replaces the old rows and invalidates the cache.
	now = now.Add(time.Hour)
	_, err = svc.Snapshot(context.Background())
	require.NoError(t, err)
	var stored int64
	require.NoError(t, conn.Model(&models.TopCurator{}).Count(&stored).Error)
	assert.EqualValues(t, 1, stored)
	assert.Empty(t, cache.values)
}
