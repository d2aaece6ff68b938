package lists

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/indiereel/backend/internal/repo"
	"github.com/indiereel/backend/internal/users"
	"github.com/indiereel/backend/pkg/db"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/logger"
)

const (
	watchlistName      = "Watchlist"
	recommendationName = "Recommendations"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages user movie lists, including the watchlist and
// recommendation list every user owns.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, req CreateListRequest) (*ListDTO, error)
	ListMine(ctx context.Context, ownerID uuid.UUID) ([]ListDTO, error)
	AddMovie(ctx context.Context, ownerID, listID, movieID uuid.UUID) error
	RemoveMovie(ctx context.Context, ownerID, listID, movieID uuid.UUID) error
	Recommend(ctx context.Context, userID, movieID uuid.UUID) error
	Unrecommend(ctx context.Context, userID, movieID uuid.UUID) error
	AddToWatchlist(ctx context.Context, userID, movieID uuid.UUID) error
	RemoveFromWatchlist(ctx context.Context, userID, movieID uuid.UUID) error
}

// CreateListRequest is the body of a new custom list.
type CreateListRequest struct {
	Name   string      `json:"name" validate:"required,max=120"`
	Movies []uuid.UUID `json:"movies"`
}

// PageDTO counts a list's movies published in one month.
type PageDTO struct {
	Year   int `json:"pub_year"`
	Month  int `json:"pub_month"`
	Movies int `json:"movies"`
}

type ListDTO struct {
	ID          uuid.UUID           `json:"id"`
	Owner       users.UserSummary   `json:"owner"`
	Name        string              `json:"name"`
	Kind        enums.MovieListKind `json:"kind"`
	Movies      []uuid.UUID         `json:"movies"`
	MoviesCount int                 `json:"movies_count"`
	LikeCount   int                 `json:"like_count"`
	Frozen      bool                `json:"frozen"`
	Pages       []PageDTO           `json:"pages"`
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	switch {
	case repo == nil:
		return nil, fmt.Errorf("lists repository required")
	case tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case logg == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req CreateListRequest) (*ListDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.Validation("list name is required")
	}
	movieIDs := uniqueIDs(req.Movies)

	var listID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		found, err := r.CountExistingMovies(ctx, movieIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check movies")
		}
		if int(found) != len(movieIDs) {
			return pkgerrors.Validation("one or more movies do not exist")
		}
		list := models.MovieList{OwnerID: ownerID, Name: name, Kind: enums.MovieListCustom}
		if err := r.Create(ctx, &list); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create list")
		}
		for _, movieID := range movieIDs {
			if _, err := r.AddMovie(ctx, list.ID, movieID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add movie to list")
			}
		}
		listID = list.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithUserID(ctx, ownerID.String()), "movie list created")

	mine, err := s.ListMine(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range mine {
		if mine[i].ID == listID {
			return &mine[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "created list missing")
}

// ListMine returns the caller's lists, provisioning the system lists on first use.
func (s *service) ListMine(ctx context.Context, ownerID uuid.UUID) ([]ListDTO, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		for _, kind := range []enums.MovieListKind{enums.MovieListWatchlist, enums.MovieListRecommendation} {
			if _, err := s.systemList(ctx, r, ownerID, kind); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list movie lists")
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	members, err := s.repo.MovieIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list movie list members")
	}

	out := make([]ListDTO, 0, len(rows))
	for _, row := range rows {
		dates, err := s.repo.PublishDates(ctx, row.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list publish dates")
		}
		movies := members[row.ID]
		if movies == nil {
			movies = []uuid.UUID{}
		}
		out = append(out, ListDTO{
			ID:          row.ID,
			Owner:       users.SummarizeUser(row.Owner),
			Name:        row.Name,
			Kind:        row.Kind,
			Movies:      movies,
			MoviesCount: len(movies),
			LikeCount:   row.Likes,
			Frozen:      row.Frozen,
			Pages:       publishPages(dates),
		})
	}
	return out, nil
}

func (s *service) AddMovie(ctx context.Context, ownerID, listID, movieID uuid.UUID) error {
	return s.editList(ctx, ownerID, listID, movieID, true)
}

func (s *service) RemoveMovie(ctx context.Context, ownerID, listID, movieID uuid.UUID) error {
	return s.editList(ctx, ownerID, listID, movieID, false)
}

func (s *service) Recommend(ctx context.Context, userID, movieID uuid.UUID) error {
	return s.editSystemList(ctx, userID, enums.MovieListRecommendation, movieID, true)
}

func (s *service) Unrecommend(ctx context.Context, userID, movieID uuid.UUID) error {
	return s.editSystemList(ctx, userID, enums.MovieListRecommendation, movieID, false)
}

func (s *service) AddToWatchlist(ctx context.Context, userID, movieID uuid.UUID) error {
	return s.editSystemList(ctx, userID, enums.MovieListWatchlist, movieID, true)
}

func (s *service) RemoveFromWatchlist(ctx context.Context, userID, movieID uuid.UUID) error {
	return s.editSystemList(ctx, userID, enums.MovieListWatchlist, movieID, false)
}

func (s *service) editList(ctx context.Context, ownerID, listID, movieID uuid.UUID, add bool) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		list, err := r.LockList(ctx, listID)
		if err != nil {
			if repo.IsNotFound(err) {
				return pkgerrors.NotFound("list not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load list")
		}
		if list.OwnerID != ownerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can edit this list")
		}
		return s.apply(ctx, r, list, movieID, add)
	})
}

func (s *service) editSystemList(ctx context.Context, userID uuid.UUID, kind enums.MovieListKind, movieID uuid.UUID, add bool) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		list, err := s.systemList(ctx, r, userID, kind)
		if err != nil {
			return err
		}
		if list, err = r.LockList(ctx, list.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock list")
		}
		return s.apply(ctx, r, list, movieID, add)
	})
}

// apply adds or removes one movie, keeping the movie's recommend count in
// step with recommendation list membership.
func (s *service) apply(ctx context.Context, r Repository, list *models.MovieList, movieID uuid.UUID, add bool) error {
	if list.Frozen {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "list is frozen")
	}
	var (
		changed bool
		err     error
	)
	if add {
		found, countErr := r.CountExistingMovies(ctx, []uuid.UUID{movieID})
		if countErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, countErr, "check movie")
		}
		if found == 0 {
			return pkgerrors.NotFound("movie not found")
		}
		changed, err = r.AddMovie(ctx, list.ID, movieID)
	} else {
		changed, err = r.RemoveMovie(ctx, list.ID, movieID)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update list")
	}
	if !changed || list.Kind != enums.MovieListRecommendation {
		return nil
	}
	delta := 1
	if !add {
		delta = -1
	}
	if err := r.AdjustRecommendCount(ctx, movieID, delta); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update recommend count")
	}
	return nil
}

func (s *service) systemList(ctx context.Context, r Repository, ownerID uuid.UUID, kind enums.MovieListKind) (*models.MovieList, error) {
	list, err := r.FindSystemList(ctx, ownerID, kind)
	if err == nil {
		return list, nil
	}
	if !repo.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load system list")
	}
	list = &models.MovieList{OwnerID: ownerID, Name: systemListName(kind), Kind: kind}
	if err := r.Create(ctx, list); err != nil {
		if db.IsUniqueViolation(err, "ux_movie_lists_owner_system_kind") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "list is being created, retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create system list")
	}
	return list, nil
}

func systemListName(kind enums.MovieListKind) string {
	if kind == enums.MovieListWatchlist {
		return watchlistName
	}
	return recommendationName
}

// publishPages groups publish dates by month, newest first. Unpublished
// movies are left out.
func publishPages(dates []*time.Time) []PageDTO {
	counts := map[[2]int]int{}
	for _, d := range dates {
		if d == nil {
			continue
		}
		counts[[2]int{d.Year(), int(d.Month())}]++
	}
	pages := make([]PageDTO, 0, len(counts))
	for k, n := range counts {
		pages = append(pages, PageDTO{Year: k[0], Month: k[1], Movies: n})
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Year != pages[j].Year {
			return pages[i].Year > pages[j].Year
		}
		return pages[i].Month > pages[j].Month
	})
	return pages
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
