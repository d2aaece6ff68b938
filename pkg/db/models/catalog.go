package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/indiereel/backend/pkg/enums"
)

// Role is a crew role such as Director or Actor.
type Role struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:text;not null;uniqueIndex"`
}

func (r *Role) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// Genre names are stored normalized (trimmed, lower-cased).
type Genre struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:text;not null;uniqueIndex"`
}

func (g *Genre) BeforeCreate(*gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

// Language names are stored normalized (trimmed, lower-cased).
type Language struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:text;not null;uniqueIndex"`
}

func (l *Language) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// Package is a submission tier; Amount is the fee in rupees.
type Package struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"type:text;not null;uniqueIndex"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Description string          `gorm:"column:description;not null;default:''"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (p *Package) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// AmountMinor converts the rupee amount to paise.
func (p Package) AmountMinor() int64 {
	return enums.CurrencyINR.ToMinor(p.Amount)
}

// Contest is a time-boxed competition movies are entered into.
type Contest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"column:description;not null;default:''"`
	StartsAt    time.Time `gorm:"column:starts_at;not null"`
	EndsAt      time.Time `gorm:"column:ends_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *Contest) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// IsLive reports whether now falls inside the contest window.
func (c Contest) IsLive(now time.Time) bool {
	return !now.Before(c.StartsAt) && now.Before(c.EndsAt)
}
