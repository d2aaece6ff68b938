package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/indiereel/backend/pkg/enums"
)

// Movie is a submission. It owns its Order, crew credits and crew requests.
type Movie struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Title          string           `gorm:"column:title;not null"`
	Link           string           `gorm:"column:link;not null"`
	Runtime        int              `gorm:"column:runtime;not null;default:0"`
	Poster         *string          `gorm:"column:poster"`
	State          enums.MovieState `gorm:"column:state;type:text;not null;default:'CREATED'"`
	Approved       bool             `gorm:"column:approved;not null;default:false"`
	AudienceRating *float64         `gorm:"column:audience_rating"`
	JuryRating     *float64         `gorm:"column:jury_rating"`
	RecommendCount int              `gorm:"column:recommend_count;not null;default:0"`
	PublishOn      *time.Time       `gorm:"column:publish_on"`
	LanguageID     *uuid.UUID       `gorm:"column:language_id;type:uuid"`
	Language       *Language        `gorm:"foreignKey:LanguageID"`
	PackageID      *uuid.UUID       `gorm:"column:package_id;type:uuid"`
	Package        *Package         `gorm:"foreignKey:PackageID"`
	OrderID        uuid.UUID        `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Order          Order            `gorm:"foreignKey:OrderID"`
	ContestID      *uuid.UUID       `gorm:"column:contest_id;type:uuid;index"`
	Contest        *Contest         `gorm:"foreignKey:ContestID"`
	Genres         []Genre          `gorm:"many2many:movie_genres;constraint:OnDelete:CASCADE"`
	CrewMembers    []CrewMember     `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *Movie) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	if m.State == "" {
		m.State = enums.MovieStateCreated
	}
	return nil
}

// CrewMember is a confirmed credit of a profile on a movie.
type CrewMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	MovieID   uuid.UUID `gorm:"column:movie_id;type:uuid;not null;uniqueIndex:ux_crew_members_movie_profile_role"`
	ProfileID uuid.UUID `gorm:"column:profile_id;type:uuid;not null;uniqueIndex:ux_crew_members_movie_profile_role;index"`
	Profile   Profile   `gorm:"foreignKey:ProfileID"`
	RoleID    uuid.UUID `gorm:"column:role_id;type:uuid;not null;uniqueIndex:ux_crew_members_movie_profile_role"`
	Role      Role      `gorm:"foreignKey:RoleID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *CrewMember) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// CrewMemberRequest is a pending credit awaiting the director's decision.
type CrewMemberRequest struct {
	ID          uuid.UUID              `gorm:"type:uuid;primaryKey"`
	RequestorID uuid.UUID              `gorm:"column:requestor_id;type:uuid;not null;index"`
	Requestor   User                   `gorm:"foreignKey:RequestorID"`
	UserID      uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	User        User                   `gorm:"foreignKey:UserID"`
	MovieID     uuid.UUID              `gorm:"column:movie_id;type:uuid;not null;index"`
	Movie       *Movie                 `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	RoleID      uuid.UUID              `gorm:"column:role_id;type:uuid;not null"`
	Role        Role                   `gorm:"foreignKey:RoleID"`
	State       enums.CrewRequestState `gorm:"column:state;type:text;not null;default:'SUBMITTED'"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *CrewMemberRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	if r.State == "" {
		r.State = enums.CrewRequestSubmitted
	}
	return nil
}
