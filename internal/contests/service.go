package contests

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/indiereel/backend/internal/movies"
	"github.com/indiereel/backend/internal/repo"
	"github.com/indiereel/backend/pkg/db/models"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/pagination"
)

// Repository reads contests.
type Repository interface {
	List(ctx context.Context) ([]models.Contest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contest, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) List(ctx context.Context) ([]models.Contest, error) {
	var rows []models.Contest
	err := r.DB(ctx).Order("starts_at DESC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Contest, error) {
	var contest models.Contest
	if err := r.DB(ctx).First(&contest, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contest, nil
}

type movieLister interface {
	ListByContest(ctx context.Context, contestID uuid.UUID, params pagination.Params) (pagination.Page[movies.MovieSummary], error)
}

// Service exposes contests and their entries.
type Service interface {
	List(ctx context.Context) ([]ContestDTO, error)
	Movies(ctx context.Context, contestID uuid.UUID, params pagination.Params) (pagination.Page[movies.MovieSummary], error)
}

type ContestDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	IsLive      bool      `json:"is_live"`
}

type service struct {
	repo   Repository
	movies movieLister
	now    func() time.Time
}

func NewService(repo Repository, movies movieLister, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contests repository required")
	}
	if movies == nil {
		return nil, fmt.Errorf("movie lister required")
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{repo: repo, movies: movies, now: now}, nil
}

// List returns live contests first, each group newest start first.
func (s *service) List(ctx context.Context) ([]ContestDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list contests")
	}
	now := s.now()
	out := make([]ContestDTO, 0, len(rows))
	for _, c := range rows {
		out = append(out, ContestDTO{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			StartsAt:    c.StartsAt,
			EndsAt:      c.EndsAt,
			IsLive:      c.IsLive(now),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsLive && !out[j].IsLive
	})
	return out, nil
}

func (s *service) Movies(ctx context.Context, contestID uuid.UUID, params pagination.Params) (pagination.Page[movies.MovieSummary], error) {
	if _, err := s.repo.FindByID(ctx, contestID); err != nil {
		if repo.IsNotFound(err) {
			return pagination.Page[movies.MovieSummary]{}, pkgerrors.NotFound("contest not found")
		}
		return pagination.Page[movies.MovieSummary]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contest")
	}
	return s.movies.ListByContest(ctx, contestID, params)
}
