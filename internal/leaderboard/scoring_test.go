package leaderboard

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestScoreCreators(t *testing.T) {
	d1, d2 := uuid.New(), uuid.New()
	m1, m2, m3 := uuid.New(), uuid.New(), uuid.New()

	scores := ScoreCreators([]DirectedMovie{
		{UserID: d1, MovieID: m1, AudienceRating: f64(8), RecommendCount: 3},
		{UserID: d1, MovieID: m2, AudienceRating: f64(6), RecommendCount: 1},
		{UserID: d1, MovieID: m2, AudienceRating: f64(6), RecommendCount: 1},
		{UserID: d2, MovieID: m3, RecommendCount: 2},
	})
	require.Len(t, scores, 2)
	assert.Equal(t, d1, scores[0].UserID)
	assert.InDelta(t, 74.0, scores[0].Score, 0.001)
	assert.Equal(t, 4, scores[0].RecommendCount)
	assert.Equal(t, d2, scores[1].UserID)
	assert.InDelta(t, 2.0, scores[1].Score, 0.001)
}

func TestScoreCurators(t *testing.T) {
	c1, c2, c3 := uuid.New(), uuid.New(), uuid.New()

	scores := ScoreCurators([]CuratorRating{
		{UserID: c1, Rating: 8, JuryRating: f64(7)},
		{UserID: c1, Rating: 6, JuryRating: f64(6)},
		{UserID: c2, Rating: 2, JuryRating: f64(7)},
		{UserID: c3, Rating: 10, JuryRating: f64(-5)},
		{UserID: c3, Rating: 9},
	}, map[uuid.UUID]int{c1: 3})
	require.Len(t, scores, 3)

	assert.Equal(t, c1, scores[0].UserID)
	assert.InDelta(t, 95.0, scores[0].Match, 0.001)
	assert.InDelta(t, 52.5, scores[0].Score, 0.001)
	assert.Equal(t, 3, scores[0].LikesOnRecommend)

	assert.Equal(t, c2, scores[1].UserID)
	assert.InDelta(t, 50.0, scores[1].Match, 0.001)
	assert.InDelta(t, 26.0, scores[1].Score, 0.001)

	assert.Equal(t, c3, scores[2].UserID)
	assert.InDelta(t, 0.0, scores[2].Match, 0.001)
	assert.InDelta(t, 2.0, scores[2].Score, 0.001)
}

func TestScoreCuratorsWithoutJuryHasZeroMatch(t *testing.T) {
	c := uuid.New()
	scores := ScoreCurators([]CuratorRating{{UserID: c, Rating: 7}}, nil)
	require.Len(t, scores, 1)
	assert.Zero(t, scores[0].Match)
	assert.InDelta(t, 1.0, scores[0].Score, 0.001)
}
