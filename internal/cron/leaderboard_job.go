package cron

import (
	"context"
	"fmt"

	"github.com/indiereel/backend/internal/leaderboard"
)

type leaderboardSnapshotter interface {
	Snapshot(ctx context.Context) (*leaderboard.SnapshotResult, error)
}

type leaderboardJob struct {
	boards leaderboardSnapshotter
}

func NewLeaderboardJob(boards leaderboardSnapshotter) (Job, error) {
	if boards == nil {
		return nil, fmt.Errorf("leaderboard service required")
	}
	return &leaderboardJob{boards: boards}, nil
}

func (j *leaderboardJob) Name() string { return "leaderboard.snapshot" }

func (j *leaderboardJob) Run(ctx context.Context) error {
	if _, err := j.boards.Snapshot(ctx); err != nil {
		return fmt.Errorf("leaderboard snapshot: %w", err)
	}
	return nil
}
