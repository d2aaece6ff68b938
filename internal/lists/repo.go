package lists

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

// Repository persists movie lists and their memberships.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, list *models.MovieList) error
	LockList(ctx context.Context, id uuid.UUID) (*models.MovieList, error)
	FindSystemList(ctx context.Context, ownerID uuid.UUID, kind enums.MovieListKind) (*models.MovieList, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.MovieList, error)
	MovieIDs(ctx context.Context, listIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	PublishDates(ctx context.Context, listID uuid.UUID) ([]*time.Time, error)
	CountExistingMovies(ctx context.Context, movieIDs []uuid.UUID) (int64, error)
	AddMovie(ctx context.Context, listID, movieID uuid.UUID) (bool, error)
	RemoveMovie(ctx context.Context, listID, movieID uuid.UUID) (bool, error)
	AdjustRecommendCount(ctx context.Context, movieID uuid.UUID, delta int) error
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

func (r *repository) Create(ctx context.Context, list *models.MovieList) error {
	return r.DB(ctx).Omit(clause.Associations).Create(list).Error
}

func (r *repository) LockList(ctx context.Context, id uuid.UUID) (*models.MovieList, error) {
	var list models.MovieList
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&list, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *repository) FindSystemList(ctx context.Context, ownerID uuid.UUID, kind enums.MovieListKind) (*models.MovieList, error) {
	var list models.MovieList
	err := r.DB(ctx).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		Order("created_at ASC").
		First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.MovieList, error) {
	var rows []models.MovieList
	err := r.DB(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// MovieIDs returns the members of each list in insertion-agnostic id order.
func (r *repository) MovieIDs(ctx context.Context, listIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(listIDs))
	if len(listIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		MovieListID uuid.UUID
		MovieID     uuid.UUID
	}
	err := r.DB(ctx).
		Table("movie_list_movies").
		Select("movie_list_id, movie_id").
		Where("movie_list_id IN ?", listIDs).
		Order("movie_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.MovieListID] = append(out[row.MovieListID], row.MovieID)
	}
	return out, nil
}

func (r *repository) PublishDates(ctx context.Context, listID uuid.UUID) ([]*time.Time, error) {
	var dates []*time.Time
	err := r.DB(ctx).
		Model(&models.Movie{}).
		Joins("JOIN movie_list_movies ON movie_list_movies.movie_id = movies.id").
		Where("movie_list_movies.movie_list_id = ?", listID).
		Pluck("movies.publish_on", &dates).Error
	return dates, err
}

func (r *repository) CountExistingMovies(ctx context.Context, movieIDs []uuid.UUID) (int64, error) {
	var n int64
	if len(movieIDs) == 0 {
		return 0, nil
	}
	err := r.DB(ctx).Model(&models.Movie{}).Where("id IN ?", movieIDs).Count(&n).Error
	return n, err
}

// AddMovie reports whether the movie was newly added.
func (r *repository) AddMovie(ctx context.Context, listID, movieID uuid.UUID) (bool, error) {
	res := r.DB(ctx).Exec(
		"INSERT INTO movie_list_movies (movie_list_id, movie_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		listID, movieID,
	)
	return res.RowsAffected > 0, res.Error
}

// RemoveMovie reports whether a membership was deleted.
func (r *repository) RemoveMovie(ctx context.Context, listID, movieID uuid.UUID) (bool, error) {
	res := r.DB(ctx).Exec(
		"DELETE FROM movie_list_movies WHERE movie_list_id = ? AND movie_id = ?",
		listID, movieID,
	)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) AdjustRecommendCount(ctx context.Context, movieID uuid.UUID, delta int) error {
	return r.DB(ctx).
		Model(&models.Movie{}).
		Where("id = ?", movieID).
		Update("recommend_count", gorm.Expr("CASE WHEN recommend_count + ? < 0 THEN 0 ELSE recommend_count + ? END", delta, delta)).Error
}
