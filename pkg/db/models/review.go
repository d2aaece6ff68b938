package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovieRateReview is one author's rating and/or written review of a movie.
// RatedAt moves only when Rating is written.
type MovieRateReview struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AuthorID  uuid.UUID  `gorm:"column:author_id;type:uuid;not null;uniqueIndex:ux_reviews_author_movie"`
	Author    User       `gorm:"foreignKey:AuthorID"`
	MovieID   uuid.UUID  `gorm:"column:movie_id;type:uuid;not null;uniqueIndex:ux_reviews_author_movie;index"`
	Content   *string    `gorm:"column:content"`
	Rating    *int       `gorm:"column:rating"`
	RatedAt   *time.Time `gorm:"column:rated_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *MovieRateReview) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
