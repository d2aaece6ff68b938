package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/indiereel/backend/internal/users"
	"github.com/indiereel/backend/pkg/db/models"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/logger"
)

const (
	kindCreators = "creators"
	kindCurators = "curators"

	// DefaultSize is how many rows a snapshot keeps.
	DefaultSize     = 50
	defaultCacheTTL = 10 * time.Minute
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Cache is the read-through store for rendered leaderboards.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(parts ...string) string
}

// Service reads and rebuilds the creator and curator leaderboards.
type Service interface {
	Creators(ctx context.Context, limit int) ([]CreatorEntry, error)
	Curators(ctx context.Context, limit int) ([]CuratorEntry, error)
	Snapshot(ctx context.Context) (*SnapshotResult, error)
}

type CreatorEntry struct {
	Rank           int               `json:"rank"`
	Score          float64           `json:"score"`
	RecommendCount int               `json:"recommend_count"`
	User           users.UserSummary `json:"user"`
}

type CuratorEntry struct {
	Rank             int               `json:"rank"`
	Score            float64           `json:"score"`
	Match            float64           `json:"match"`
	LikesOnRecommend int               `json:"likes_on_recommend"`
	User             users.UserSummary `json:"user"`
}

// SnapshotResult reports how many rows each leaderboard received.
type SnapshotResult struct {
	Creators   int
	Curators   int
	SnapshotAt time.Time
}

type ServiceParams struct {
	Repo     Repository
	TX       txRunner
	Cache    Cache
	Logger   *logger.Logger
	Size     int
	CacheTTL time.Duration
	Now      func() time.Time
}

type service struct {
	repo     Repository
	tx       txRunner
	cache    Cache
	logg     *logger.Logger
	size     int
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("leaderboard repository required")
	case params.TX == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	s := &service{
		repo:     params.Repo,
		tx:       params.TX,
		cache:    params.Cache,
		logg:     params.Logger,
		size:     params.Size,
		cacheTTL: params.CacheTTL,
		now:      params.Now,
	}
	if s.size <= 0 {
		s.size = DefaultSize
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = defaultCacheTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

func (s *service) Creators(ctx context.Context, limit int) ([]CreatorEntry, error) {
	var entries []CreatorEntry
	if s.readCache(ctx, kindCreators, &entries) {
		return truncate(entries, s.limit(limit)), nil
	}
	rows, err := s.repo.LatestCreators(ctx, s.size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load creator leaderboard")
	}
	entries = make([]CreatorEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, CreatorEntry{
			Rank:           row.Rank,
			Score:          row.Score,
			RecommendCount: row.RecommendCount,
			User:           users.SummarizeUser(row.User),
		})
	}
	s.writeCache(ctx, kindCreators, entries)
	return truncate(entries, s.limit(limit)), nil
}

func (s *service) Curators(ctx context.Context, limit int) ([]CuratorEntry, error) {
	var entries []CuratorEntry
	if s.readCache(ctx, kindCurators, &entries) {
		return truncate(entries, s.limit(limit)), nil
	}
	rows, err := s.repo.LatestCurators(ctx, s.size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load curator leaderboard")
	}
	entries = make([]CuratorEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, CuratorEntry{
			Rank:             row.Rank,
			Score:            row.Score,
			Match:            row.Match,
			LikesOnRecommend: row.LikesOnRecommend,
			User:             users.SummarizeUser(row.User),
		})
	}
	s.writeCache(ctx, kindCurators, entries)
	return truncate(entries, s.limit(limit)), nil
}

// Snapshot recomputes both leaderboards and replaces the stored snapshot.
func (s *service) Snapshot(ctx context.Context) (*SnapshotResult, error) {
	at := snapshotTime(s.now())
	result := &SnapshotResult{SnapshotAt: at}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		directed, err := r.DirectedMovies(ctx)
		if err != nil {
			return fmt.Errorf("load directed movies: %w", err)
		}
		creators := ScoreCreators(directed)
		creatorRows := make([]models.TopCreator, 0, s.size)
		for i, c := range truncate(creators, s.size) {
			creatorRows = append(creatorRows, models.TopCreator{
				UserID:         c.UserID,
				Rank:           i + 1,
				Score:          c.Score,
				RecommendCount: c.RecommendCount,
				SnapshotAt:     at,
			})
		}
		if err := r.ReplaceCreators(ctx, creatorRows); err != nil {
			return fmt.Errorf("store creator snapshot: %w", err)
		}
		result.Creators = len(creatorRows)

		ratings, err := r.CuratorRatings(ctx)
		if err != nil {
			return fmt.Errorf("load curator ratings: %w", err)
		}
		likes, err := r.RecommendationLikes(ctx)
		if err != nil {
			return fmt.Errorf("load recommendation likes: %w", err)
		}
		curators := ScoreCurators(ratings, likes)
		curatorRows := make([]models.TopCurator, 0, s.size)
		for i, c := range truncate(curators, s.size) {
			curatorRows = append(curatorRows, models.TopCurator{
				UserID:           c.UserID,
				Rank:             i + 1,
				Match:            c.Match,
				LikesOnRecommend: c.LikesOnRecommend,
				Score:            c.Score,
				SnapshotAt:       at,
			})
		}
		if err := r.ReplaceCurators(ctx, curatorRows); err != nil {
			return fmt.Errorf("store curator snapshot: %w", err)
		}
		result.Curators = len(curatorRows)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		keys := []string{s.cache.CacheKey("leaderboard", kindCreators), s.cache.CacheKey("leaderboard", kindCurators)}
		if err := s.cache.Del(ctx, keys...); err != nil {
			s.logg.Warn(ctx, "failed to invalidate leaderboard cache")
		}
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"creators": result.Creators, "curators": result.Curators})
	s.logg.Info(ctx, "leaderboard snapshot stored")
	return result, nil
}

func (s *service) limit(limit int) int {
	if limit <= 0 || limit > s.size {
		return s.size
	}
	return limit
}

func (s *service) readCache(ctx context.Context, kind string, dest any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, s.cache.CacheKey("leaderboard", kind))
	if err != nil || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logg.Warn(ctx, "discarding unreadable leaderboard cache entry")
		return false
	}
	return true
}

func (s *service) writeCache(ctx context.Context, kind string, entries any) {
	if s.cache == nil {
		return
	}
	body, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.CacheKey("leaderboard", kind), string(body), s.cacheTTL); err != nil {
		s.logg.Warn(ctx, "failed to cache leaderboard")
	}
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
