package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/indiereel/backend/pkg/enums"
)

// MovieList is a named collection of movies. Every user also owns one
// watchlist and one recommendation list, created on first use.
type MovieList struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID           `gorm:"column:owner_id;type:uuid;not null;index"`
	Owner     User                `gorm:"foreignKey:OwnerID"`
	Name      string              `gorm:"column:name;not null"`
	Kind      enums.MovieListKind `gorm:"column:kind;type:text;not null;default:'custom'"`
	Frozen    bool                `gorm:"column:frozen;not null;default:false"`
	Likes     int                 `gorm:"column:likes;not null;default:0"`
	Movies    []Movie             `gorm:"many2many:movie_list_movies;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *MovieList) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	if l.Kind == "" {
		l.Kind = enums.MovieListCustom
	}
	return nil
}
