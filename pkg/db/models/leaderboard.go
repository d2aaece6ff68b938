package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TopCreator is one row of a creator leaderboard snapshot.
type TopCreator struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	User           User      `gorm:"foreignKey:UserID"`
	Rank           int       `gorm:"column:rank;not null"`
	Score          float64   `gorm:"column:score;not null;default:0"`
	RecommendCount int       `gorm:"column:recommend_count;not null;default:0"`
	SnapshotAt     time.Time `gorm:"column:snapshot_at;not null;index"`
}

func (t *TopCreator) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// TopCurator is one row of a curator leaderboard snapshot. Match is the
// 0-100 agreement between the curator's ratings and the jury's.
type TopCurator struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	User             User      `gorm:"foreignKey:UserID"`
	Rank             int       `gorm:"column:rank;not null"`
	Match            float64   `gorm:"column:match;not null;default:0"`
	LikesOnRecommend int       `gorm:"column:likes_on_recommend;not null;default:0"`
	Score            float64   `gorm:"column:score;not null;default:0"`
	SnapshotAt       time.Time `gorm:"column:snapshot_at;not null;index"`
}

func (t *TopCurator) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
