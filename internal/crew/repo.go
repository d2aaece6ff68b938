package crew

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/indiereel/backend/internal/repo"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
)

// Repository persists crew member requests and the credits they turn into.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LockMovie(ctx context.Context, movieID uuid.UUID) (*models.Movie, error)
	FindDirectorUserID(ctx context.Context, movieID uuid.UUID) (uuid.UUID, error)
	HasCreditOrPending(ctx context.Context, movieID, userID, roleID uuid.UUID) (bool, error)
	CreateRequest(ctx context.Context, request *models.CrewMemberRequest) error
	FindRequest(ctx context.Context, id uuid.UUID) (*models.CrewMemberRequest, error)
	UpdateRequestState(ctx context.Context, id uuid.UUID, state enums.CrewRequestState) error
	AddCrewMember(ctx context.Context, member *models.CrewMember) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CrewMemberRequest, error)
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

func (r *repository) LockMovie(ctx context.Context, movieID uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&movie, "id = ?", movieID).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindDirectorUserID returns the user behind the movie's Director credit.
func (r *repository) FindDirectorUserID(ctx context.Context, movieID uuid.UUID) (uuid.UUID, error) {
	var row struct {
		UserID uuid.UUID
	}
	err := r.DB(ctx).
		Table("crew_members").
		Select("profiles.user_id AS user_id").
		Joins("JOIN profiles ON profiles.id = crew_members.profile_id").
		Joins("JOIN roles ON roles.id = crew_members.role_id").
		Where("crew_members.movie_id = ? AND LOWER(roles.name) = ?", movieID, "director").
		Take(&row).Error
	if err != nil {
		return uuid.Nil, err
	}
	return row.UserID, nil
}

// HasCreditOrPending reports whether the user already holds the role on the
// movie, either as a credit or as a request still awaiting a decision.
func (r *repository) HasCreditOrPending(ctx context.Context, movieID, userID, roleID uuid.UUID) (bool, error) {
	var credits int64
	err := r.DB(ctx).
		Table("crew_members").
		Joins("JOIN profiles ON profiles.id = crew_members.profile_id").
		Where("crew_members.movie_id = ? AND crew_members.role_id = ? AND profiles.user_id = ?", movieID, roleID, userID).
		Count(&credits).Error
	if err != nil {
		return false, err
	}
	if credits > 0 {
		return true, nil
	}
	var pending int64
	err = r.DB(ctx).
		Model(&models.CrewMemberRequest{}).
		Where("movie_id = ? AND role_id = ? AND user_id = ? AND state = ?", movieID, roleID, userID, enums.CrewRequestSubmitted).
		Count(&pending).Error
	return pending > 0, err
}

func (r *repository) CreateRequest(ctx context.Context, request *models.CrewMemberRequest) error {
	return r.DB(ctx).Omit(clause.Associations).Create(request).Error
}

func (r *repository) FindRequest(ctx context.Context, id uuid.UUID) (*models.CrewMemberRequest, error) {
	var request models.CrewMemberRequest
	err := r.DB(ctx).
		Preload("Role").
		Preload("User").
		Preload("Requestor").
		First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) UpdateRequestState(ctx context.Context, id uuid.UUID, state enums.CrewRequestState) error {
	return r.DB(ctx).
		Model(&models.CrewMemberRequest{}).
		Where("id = ?", id).
		Update("state", state).Error
}

func (r *repository) AddCrewMember(ctx context.Context, member *models.CrewMember) error {
	return r.DB(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(member).Error
}

// ListForUser returns requests addressed to or made by the user, newest first.
func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CrewMemberRequest, error) {
	var rows []models.CrewMemberRequest
	err := r.DB(ctx).
		Preload("Role").
		Preload("User").
		Preload("Requestor").
		Preload("Movie").
		Where("user_id = ? OR requestor_id = ?", userID, userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}
