package leaderboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/indiereel/backend/internal/repo"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
)

// Repository reads the inputs of a leaderboard snapshot and stores the result.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LatestCreators(ctx context.Context, limit int) ([]models.TopCreator, error)
	LatestCurators(ctx context.Context, limit int) ([]models.TopCurator, error)
	DirectedMovies(ctx context.Context) ([]DirectedMovie, error)
	CuratorRatings(ctx context.Context) ([]CuratorRating, error)
	RecommendationLikes(ctx context.Context) (map[uuid.UUID]int, error)
	ReplaceCreators(ctx context.Context, rows []models.TopCreator) error
	ReplaceCurators(ctx context.Context, rows []models.TopCurator) error
}

// DirectedMovie is one approved movie credited to a director.
type DirectedMovie struct {
	UserID         uuid.UUID
	MovieID        uuid.UUID
	AudienceRating *float64
	RecommendCount int
}

// CuratorRating is one non-null rating with the movie's jury rating, if any.
type CuratorRating struct {
	UserID     uuid.UUID
	Rating     int
	JuryRating *float64
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) LatestCreators(ctx context.Context, limit int) ([]models.TopCreator, error) {
	var rows []models.TopCreator
	latest := r.DB(ctx).Model(&models.TopCreator{}).Select("MAX(snapshot_at)")
	err := r.DB(ctx).
		Preload("User").
		Where("snapshot_at = (?)", latest).
		Order("rank ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) LatestCurators(ctx context.Context, limit int) ([]models.TopCurator, error) {
	var rows []models.TopCurator
	latest := r.DB(ctx).Model(&models.TopCurator{}).Select("MAX(snapshot_at)")
	err := r.DB(ctx).
		Preload("User").
		Where("snapshot_at = (?)", latest).
		Order("rank ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) DirectedMovies(ctx context.Context) ([]DirectedMovie, error) {
	var rows []DirectedMovie
	err := r.DB(ctx).
		Table("crew_members").
		Select("profiles.user_id AS user_id, movies.id AS movie_id, movies.audience_rating AS audience_rating, movies.recommend_count AS recommend_count").
		Joins("JOIN profiles ON profiles.id = crew_members.profile_id").
		Joins("JOIN roles ON roles.id = crew_members.role_id").
		Joins("JOIN movies ON movies.id = crew_members.movie_id").
		Where("LOWER(roles.name) = ? AND movies.approved = ?", "director", true).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CuratorRatings(ctx context.Context) ([]CuratorRating, error) {
	var rows []CuratorRating
	err := r.DB(ctx).
		Table("movie_rate_reviews").
		Select("movie_rate_reviews.author_id AS user_id, movie_rate_reviews.rating AS rating, movies.jury_rating AS jury_rating").
		Joins("JOIN movies ON movies.id = movie_rate_reviews.movie_id").
		Where("movie_rate_reviews.rating IS NOT NULL").
		Scan(&rows).Error
	return rows, err
}

// RecommendationLikes sums the likes on each user's recommendation lists.
func (r *repository) RecommendationLikes(ctx context.Context) (map[uuid.UUID]int, error) {
	var rows []struct {
		OwnerID uuid.UUID
		Likes   int
	}
	err := r.DB(ctx).
		Model(&models.MovieList{}).
		Select("owner_id, SUM(likes) AS likes").
		Where("kind = ?", enums.MovieListRecommendation).
		Group("owner_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		out[row.OwnerID] = row.Likes
	}
	return out, nil
}

// ReplaceCreators stores a new snapshot and drops the older ones.
func (r *repository) ReplaceCreators(ctx context.Context, rows []models.TopCreator) error {
	if len(rows) == 0 {
		return nil
	}
	at := rows[0].SnapshotAt
	if err := r.DB(ctx).Where("snapshot_at <= ?", at).Delete(&models.TopCreator{}).Error; err != nil {
		return err
	}
	return r.DB(ctx).Omit(clause.Associations).Create(&rows).Error
}

// ReplaceCurators stores a new snapshot and drops the older ones.
func (r *repository) ReplaceCurators(ctx context.Context, rows []models.TopCurator) error {
	if len(rows) == 0 {
		return nil
	}
	at := rows[0].SnapshotAt
	if err := r.DB(ctx).Where("snapshot_at <= ?", at).Delete(&models.TopCurator{}).Error; err != nil {
		return err
	}
	return r.DB(ctx).Omit(clause.Associations).Create(&rows).Error
}

func snapshotTime(now time.Time) time.Time {
	return now.UTC().Truncate(time.Second)
}
