package movies

import (
	"context"

	"github.com/google/uuid"

	"github.com/indiereel/backend/internal/repo"
	"github.com/indiereel/backend/pkg/enums"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/pagination"
)

func (s *service) Get(ctx context.Context, movieID uuid.UUID, viewer *Actor) (*MovieDetail, error) {
	return s.detail(ctx, movieID, viewer)
}

// detail loads a movie and fills the viewer-specific fields when a viewer is known.
func (s *service) detail(ctx context.Context, movieID uuid.UUID, viewer *Actor) (*MovieDetail, error) {
	movie, err := s.repo.LoadMovie(ctx, movieID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.NotFound("movie not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load movie")
	}
	out := s.mapper.Detail(*movie)
	if viewer == nil || viewer.UserID == uuid.Nil {
		return &out, nil
	}

	review, err := s.repo.FindReview(ctx, viewer.UserID, movieID)
	if err != nil && !repo.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review")
	}
	out.MyReview = mapReview(review)

	kinds, err := s.repo.ListKindsContaining(ctx, viewer.UserID, movieID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load list membership")
	}
	for _, kind := range kinds {
		switch kind {
		case enums.MovieListWatchlist:
			out.IsWatchlisted = true
		case enums.MovieListRecommendation:
			out.IsRecommended = true
		}
	}
	return &out, nil
}

func (s *service) ListPublished(ctx context.Context, params pagination.Params) (pagination.Page[MovieSummary], error) {
	if err := checkCursor(params); err != nil {
		return pagination.Page[MovieSummary]{}, err
	}
	rows, err := s.repo.ListPublished(ctx, params)
	if err != nil {
		return pagination.Page[MovieSummary]{}, listError(err)
	}
	page := pagination.Trim(rows, params.Limit, movieCursor)
	return pagination.Page[MovieSummary]{Items: s.mapper.Summaries(page.Items), NextCursor: page.NextCursor}, nil
}

func (s *service) ListByContest(ctx context.Context, contestID uuid.UUID, params pagination.Params) (pagination.Page[MovieSummary], error) {
	if err := checkCursor(params); err != nil {
		return pagination.Page[MovieSummary]{}, err
	}
	rows, err := s.repo.ListByContest(ctx, contestID, params)
	if err != nil {
		return pagination.Page[MovieSummary]{}, listError(err)
	}
	page := pagination.Trim(rows, params.Limit, movieCursor)
	return pagination.Page[MovieSummary]{Items: s.mapper.Summaries(page.Items), NextCursor: page.NextCursor}, nil
}

func (s *service) ListSubmissions(ctx context.Context, actor Actor, params pagination.Params) (pagination.Page[Submission], error) {
	if actor.UserID == uuid.Nil {
		return pagination.Page[Submission]{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := checkCursor(params); err != nil {
		return pagination.Page[Submission]{}, err
	}
	rows, err := s.repo.ListByOwner(ctx, actor.UserID, params)
	if err != nil {
		return pagination.Page[Submission]{}, listError(err)
	}
	page := pagination.Trim(rows, params.Limit, movieCursor)
	items := make([]Submission, 0, len(page.Items))
	for _, movie := range page.Items {
		items = append(items, s.mapper.Submission(movie))
	}
	return pagination.Page[Submission]{Items: items, NextCursor: page.NextCursor}, nil
}

func (s *service) ListByProfile(ctx context.Context, profileID uuid.UUID, params pagination.Params) (pagination.Page[MovieSummary], error) {
	if err := checkCursor(params); err != nil {
		return pagination.Page[MovieSummary]{}, err
	}
	if _, err := s.users.FindProfileByID(ctx, profileID); err != nil {
		if repo.IsNotFound(err) {
			return pagination.Page[MovieSummary]{}, pkgerrors.NotFound("profile not found")
		}
		return pagination.Page[MovieSummary]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	rows, err := s.repo.ListByProfile(ctx, profileID, params)
	if err != nil {
		return pagination.Page[MovieSummary]{}, listError(err)
	}
	page := pagination.Trim(rows, params.Limit, movieCursor)
	return pagination.Page[MovieSummary]{Items: s.mapper.Summaries(page.Items), NextCursor: page.NextCursor}, nil
}

func checkCursor(params pagination.Params) error {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination cursor")
	}
	return nil
}

func listError(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list movies")
}
