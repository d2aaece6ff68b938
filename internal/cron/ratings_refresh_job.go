package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/indiereel/backend/pkg/logger"
)

type ratingRefresher interface {
	RatedMovieIDs(ctx context.Context) ([]uuid.UUID, error)
	RefreshAudienceRating(ctx context.Context, movieID uuid.UUID) error
}

type ratingsRefreshJob struct {
	logg    *logger.Logger
	ratings ratingRefresher
}

// NewRatingsRefreshJob recomputes every reviewed movie's audience rating so
// the stored aggregate cannot drift from its reviews.
func NewRatingsRefreshJob(logg *logger.Logger, ratings ratingRefresher) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if ratings == nil {
		return nil, fmt.Errorf("rating refresher required")
	}
	return &ratingsRefreshJob{logg: logg, ratings: ratings}, nil
}

func (j *ratingsRefreshJob) Name() string { return "ratings.refresh" }

func (j *ratingsRefreshJob) Run(ctx context.Context) error {
	ids, err := j.ratings.RatedMovieIDs(ctx)
	if err != nil {
		return fmt.Errorf("list rated movies: %w", err)
	}
	var errs error
	refreshed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		if err := j.ratings.RefreshAudienceRating(ctx, id); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		refreshed++
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"movies":    len(ids),
		"refreshed": refreshed,
	}), "audience ratings refreshed")
	return errs
}
