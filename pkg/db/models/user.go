package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/indiereel/backend/pkg/enums"
)

// User represents the canonical identity entity. Accounts provisioned on
// someone else's behalf (directors, crew) start unverified.
type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email      string         `gorm:"type:text;not null;uniqueIndex"`
	FirstName  string         `gorm:"column:first_name;not null;default:''"`
	LastName   string         `gorm:"column:last_name;not null;default:''"`
	IsVerified bool           `gorm:"column:is_verified;not null;default:false"`
	Role       enums.UserRole `gorm:"column:role;type:text;not null;default:'member'"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	if u.Role == "" {
		u.Role = enums.UserRoleMember
	}
	return nil
}

// FullName joins first and last name, skipping blanks.
func (u User) FullName() string {
	return strings.TrimSpace(strings.Join([]string{u.FirstName, u.LastName}, " "))
}

// Profile is the public face of a user; crew credits point at profiles.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	User      User      `gorm:"foreignKey:UserID"`
	Onboarded bool      `gorm:"column:onboarded;not null;default:false"`
	Mobile    *string   `gorm:"column:mobile"`
	Bio       *string   `gorm:"column:bio"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Profile) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
