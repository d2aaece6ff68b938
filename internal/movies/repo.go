package movies

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/indiereel/backend/internal/repo"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
	"github.com/indiereel/backend/pkg/pagination"
)

// Repository defines persistence for movies and the rows they own.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	CreateMovie(ctx context.Context, movie *models.Movie) error
	UpdateMovie(ctx context.Context, movieID uuid.UUID, updates map[string]any) error
	FindMovieForUpdate(ctx context.Context, id uuid.UUID) (*models.Movie, error)
	LoadMovie(ctx context.Context, id uuid.UUID) (*models.Movie, error)
	ReplaceGenres(ctx context.Context, movieID uuid.UUID, genres []models.Genre) error
	ClearCreatorRoles(ctx context.Context, movieID uuid.UUID, creator models.Profile, keepRoleID uuid.UUID) error
	AddCrewMembers(ctx context.Context, members []models.CrewMember) error
	AddCrewRequests(ctx context.Context, requests []models.CrewMemberRequest) error
	ReplaceDirector(ctx context.Context, movieID uuid.UUID, director models.Profile, directorRoleID uuid.UUID) error
	CountCrewWithRole(ctx context.Context, movieID, roleID uuid.UUID) (int64, error)
	ListPublished(ctx context.Context, params pagination.Params) ([]models.Movie, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]models.Movie, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID, params pagination.Params) ([]models.Movie, error)
	ListByContest(ctx context.Context, contestID uuid.UUID, params pagination.Params) ([]models.Movie, error)
	FindReview(ctx context.Context, authorID, movieID uuid.UUID) (*models.MovieRateReview, error)
	ListKindsContaining(ctx context.Context, ownerID, movieID uuid.UUID) ([]enums.MovieListKind, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a movies repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Omit("Owner").Create(order).Error
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return r.DB(ctx).Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error
}

func (r *repository) CreateMovie(ctx context.Context, movie *models.Movie) error {
	return r.DB(ctx).Omit(clause.Associations).Create(movie).Error
}

func (r *repository) UpdateMovie(ctx context.Context, movieID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB(ctx).Model(&models.Movie{}).Where("id = ?", movieID).Updates(updates).Error
}

// FindMovieForUpdate locks the movie row and loads what the write paths check.
func (r *repository) FindMovieForUpdate(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Order.Owner").
		Preload("Package").
		Where("id = ?", id).
		First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// LoadMovie returns the movie with every relation the detail view renders.
func (r *repository) LoadMovie(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	err := r.DB(ctx).
		Preload("Language").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name ASC") }).
		Preload("Package").
		Preload("Order").
		Preload("Contest").
		Preload("CrewMembers", func(db *gorm.DB) *gorm.DB { return db.Order("crew_members.created_at ASC") }).
		Preload("CrewMembers.Profile.User").
		Preload("CrewMembers.Role").
		Where("id = ?", id).
		First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *repository) ReplaceGenres(ctx context.Context, movieID uuid.UUID, genres []models.Genre) error {
	db := r.DB(ctx)
	if err := db.Exec("DELETE FROM movie_genres WHERE movie_id = ?", movieID).Error; err != nil {
		return err
	}
	for _, g := range genres {
		if err := db.Exec("INSERT INTO movie_genres (movie_id, genre_id) VALUES (?, ?)", movieID, g.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// ClearCreatorRoles drops the creator's credits and pending self-requests on a
// movie, leaving the credit with keepRoleID in place.
func (r *repository) ClearCreatorRoles(ctx context.Context, movieID uuid.UUID, creator models.Profile, keepRoleID uuid.UUID) error {
	db := r.DB(ctx)
	if err := db.
		Where("movie_id = ? AND profile_id = ? AND role_id <> ?", movieID, creator.ID, keepRoleID).
		Delete(&models.CrewMember{}).Error; err != nil {
		return err
	}
	return db.
		Where("movie_id = ? AND user_id = ? AND state = ?", movieID, creator.UserID, enums.CrewRequestSubmitted).
		Delete(&models.CrewMemberRequest{}).Error
}

func (r *repository) AddCrewMembers(ctx context.Context, members []models.CrewMember) error {
	if len(members) == 0 {
		return nil
	}
	return r.DB(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&members).Error
}

func (r *repository) AddCrewRequests(ctx context.Context, requests []models.CrewMemberRequest) error {
	if len(requests) == 0 {
		return nil
	}
	return r.DB(ctx).Omit(clause.Associations).Create(&requests).Error
}

// ReplaceDirector removes every Director credit and pending Director request
// for the incoming profile, then credits the profile.
func (r *repository) ReplaceDirector(ctx context.Context, movieID uuid.UUID, director models.Profile, directorRoleID uuid.UUID) error {
	db := r.DB(ctx)
	if err := db.
		Where("movie_id = ? AND role_id = ?", movieID, directorRoleID).
		Delete(&models.CrewMember{}).Error; err != nil {
		return err
	}
	if err := db.
		Where("movie_id = ? AND user_id = ? AND role_id = ? AND state = ?", movieID, director.UserID, directorRoleID, enums.CrewRequestSubmitted).
		Delete(&models.CrewMemberRequest{}).Error; err != nil {
		return err
	}
	member := models.CrewMember{MovieID: movieID, ProfileID: director.ID, RoleID: directorRoleID}
	return db.Omit(clause.Associations).Create(&member).Error
}

func (r *repository) CountCrewWithRole(ctx context.Context, movieID, roleID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.CrewMember{}).
		Where("movie_id = ? AND role_id = ?", movieID, roleID).
		Count(&count).Error
	return count, err
}

func (r *repository) listQuery(ctx context.Context, params pagination.Params) (*gorm.DB, error) {
	keyset, err := pagination.Keyset(params, "movies")
	if err != nil {
		return nil, err
	}
	return r.DB(ctx).
		Preload("Language").
		Preload("Genres").
		Preload("Package").
		Preload("Order").
		Scopes(keyset), nil
}

func (r *repository) ListPublished(ctx context.Context, params pagination.Params) ([]models.Movie, error) {
	q, err := r.listQuery(ctx, params)
	if err != nil {
		return nil, err
	}
	var rows []models.Movie
	err = q.Where("movies.state = ? AND movies.approved = ?", enums.MovieStatePublished, true).Find(&rows).Error
	return rows, err
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]models.Movie, error) {
	q, err := r.listQuery(ctx, params)
	if err != nil {
		return nil, err
	}
	var rows []models.Movie
	err = q.
		Joins("JOIN orders ON orders.id = movies.order_id").
		Where("orders.owner_id = ?", ownerID).
		Find(&rows).Error
	return rows, err
}

// ListByContest returns the approved entries of a contest.
func (r *repository) ListByContest(ctx context.Context, contestID uuid.UUID, params pagination.Params) ([]models.Movie, error) {
	q, err := r.listQuery(ctx, params)
	if err != nil {
		return nil, err
	}
	var rows []models.Movie
	err = q.Where("movies.contest_id = ? AND movies.approved = ?", contestID, true).Find(&rows).Error
	return rows, err
}

func (r *repository) ListByProfile(ctx context.Context, profileID uuid.UUID, params pagination.Params) ([]models.Movie, error) {
	q, err := r.listQuery(ctx, params)
	if err != nil {
		return nil, err
	}
	credited := r.DB(ctx).Model(&models.CrewMember{}).Select("movie_id").Where("profile_id = ?", profileID)
	var rows []models.Movie
	err = q.Where("movies.id IN (?)", credited).Find(&rows).Error
	return rows, err
}

func (r *repository) FindReview(ctx context.Context, authorID, movieID uuid.UUID) (*models.MovieRateReview, error) {
	var review models.MovieRateReview
	err := r.DB(ctx).Where("author_id = ? AND movie_id = ?", authorID, movieID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repository) ListKindsContaining(ctx context.Context, ownerID, movieID uuid.UUID) ([]enums.MovieListKind, error) {
	var kinds []enums.MovieListKind
	err := r.DB(ctx).
		Model(&models.MovieList{}).
		Distinct("movie_lists.kind").
		Joins("JOIN movie_list_movies ON movie_list_movies.movie_list_id = movie_lists.id").
		Where("movie_lists.owner_id = ? AND movie_list_movies.movie_id = ?", ownerID, movieID).
		Pluck("movie_lists.kind", &kinds).Error
	return kinds, err
}

func movieCursor(m models.Movie) pagination.Cursor {
	return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
