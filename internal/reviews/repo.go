package reviews

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/indiereel/backend/internal/repo"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/pagination"
)

// Repository persists reviews and the aggregate rating they feed.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LockMovie(ctx context.Context, movieID uuid.UUID) (*models.Movie, error)
	FindMovie(ctx context.Context, movieID uuid.UUID) (*models.Movie, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MovieRateReview, error)
	FindByAuthorAndMovie(ctx context.Context, authorID, movieID uuid.UUID) (*models.MovieRateReview, error)
	Create(ctx context.Context, review *models.MovieRateReview) error
	Save(ctx context.Context, review *models.MovieRateReview) error
	AverageRating(ctx context.Context, movieID uuid.UUID) (*float64, error)
	SetAudienceRating(ctx context.Context, movieID uuid.UUID, rating *float64) error
	ListByMovie(ctx context.Context, movieID uuid.UUID, params pagination.Params) ([]models.MovieRateReview, error)
	RatedMovieIDs(ctx context.Context) ([]uuid.UUID, error)
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

// LockMovie takes a row lock on the movie so concurrent review writes
// serialize their aggregate recomputation.
func (r *repository) LockMovie(ctx context.Context, movieID uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", movieID).
		First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *repository) FindMovie(ctx context.Context, movieID uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	if err := r.DB(ctx).First(&movie, "id = ?", movieID).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MovieRateReview, error) {
	var review models.MovieRateReview
	if err := r.DB(ctx).Preload("Author").First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repository) FindByAuthorAndMovie(ctx context.Context, authorID, movieID uuid.UUID) (*models.MovieRateReview, error) {
	var review models.MovieRateReview
	err := r.DB(ctx).Where("author_id = ? AND movie_id = ?", authorID, movieID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repository) Create(ctx context.Context, review *models.MovieRateReview) error {
	return r.DB(ctx).Omit(clause.Associations).Create(review).Error
}

func (r *repository) Save(ctx context.Context, review *models.MovieRateReview) error {
	return r.DB(ctx).
		Model(&models.MovieRateReview{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"content":  review.Content,
			"rating":   review.Rating,
			"rated_at": review.RatedAt,
		}).Error
}

// AverageRating is the mean of the movie's non-null ratings, nil when none exist.
func (r *repository) AverageRating(ctx context.Context, movieID uuid.UUID) (*float64, error) {
	var avg sql.NullFloat64
	err := r.DB(ctx).
		Model(&models.MovieRateReview{}).
		Select("AVG(CAST(rating AS DOUBLE PRECISION))").
		Where("movie_id = ? AND rating IS NOT NULL", movieID).
		Row().
		Scan(&avg)
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

func (r *repository) SetAudienceRating(ctx context.Context, movieID uuid.UUID, rating *float64) error {
	return r.DB(ctx).
		Model(&models.Movie{}).
		Where("id = ?", movieID).
		Update("audience_rating", rating).Error
}

func (r *repository) ListByMovie(ctx context.Context, movieID uuid.UUID, params pagination.Params) ([]models.MovieRateReview, error) {
	keyset, err := pagination.Keyset(params, "")
	if err != nil {
		return nil, err
	}
	q := r.DB(ctx).
		Preload("Author").
		Where("movie_id = ?", movieID).
		Scopes(keyset)
	var rows []models.MovieRateReview
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// RatedMovieIDs lists movies with at least one review, rated or not.
func (r *repository) RatedMovieIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB(ctx).
		Model(&models.MovieRateReview{}).
		Distinct("movie_id").
		Order("movie_id").
		Pluck("movie_id", &ids).Error
	return ids, err
}
