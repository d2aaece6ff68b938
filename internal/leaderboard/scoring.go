package leaderboard

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

const (
	creatorRatingWeight = 10.0
	curatorMatchWeight  = 0.5
	matchPenalty        = 10.0
)

// CreatorScore is a director's standing before ranking.
type CreatorScore struct {
	UserID         uuid.UUID
	Score          float64
	RecommendCount int
}

// CuratorScore is a reviewer's standing before ranking.
type CuratorScore struct {
	UserID           uuid.UUID
	Match            float64
	Ratings          int
	LikesOnRecommend int
	Score            float64
}

// ScoreCreators scores each director as the mean audience rating of their
// rated movies times ten, plus the recommendations all their movies received.
func ScoreCreators(movies []DirectedMovie) []CreatorScore {
	type acc struct {
		sum        float64
		rated      int
		recommends int
	}
	seen := map[[2]uuid.UUID]struct{}{}
	byUser := map[uuid.UUID]*acc{}
	for _, m := range movies {
		key := [2]uuid.UUID{m.UserID, m.MovieID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		a := byUser[m.UserID]
		if a == nil {
			a = &acc{}
			byUser[m.UserID] = a
		}
		a.recommends += m.RecommendCount
		if m.AudienceRating != nil {
			a.sum += *m.AudienceRating
			a.rated++
		}
	}

	out := make([]CreatorScore, 0, len(byUser))
	for userID, a := range byUser {
		mean := 0.0
		if a.rated > 0 {
			mean = a.sum / float64(a.rated)
		}
		out = append(out, CreatorScore{
			UserID:         userID,
			Score:          round2(mean*creatorRatingWeight + float64(a.recommends)),
			RecommendCount: a.recommends,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	return out
}

// ScoreCurators scores each reviewer by how closely their ratings track the
// jury, how many movies they rated and the likes on their recommendations.
// Match is 100 minus ten points per unit of mean absolute deviation from the
// jury rating, clamped to 0..100; it is 0 when none of their movies has a
// jury rating yet.
func ScoreCurators(ratings []CuratorRating, likes map[uuid.UUID]int) []CuratorScore {
	type acc struct {
		count  int
		dev    float64
		judged int
	}
	byUser := map[uuid.UUID]*acc{}
	for _, r := range ratings {
		a := byUser[r.UserID]
		if a == nil {
			a = &acc{}
			byUser[r.UserID] = a
		}
		a.count++
		if r.JuryRating != nil {
			a.dev += math.Abs(float64(r.Rating) - *r.JuryRating)
			a.judged++
		}
	}

	out := make([]CuratorScore, 0, len(byUser))
	for userID, a := range byUser {
		match := 0.0
		if a.judged > 0 {
			match = clamp(100-matchPenalty*(a.dev/float64(a.judged)), 0, 100)
		}
		liked := likes[userID]
		out = append(out, CuratorScore{
			UserID:           userID,
			Match:            round2(match),
			Ratings:          a.count,
			LikesOnRecommend: liked,
			Score:            round2(match*curatorMatchWeight + float64(a.count) + float64(liked)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
