package users

import (
	"github.com/google/uuid"

	"github.com/indiereel/backend/pkg/db/models"
)

// ProfileSummary is the public shape of a profile embedded in other responses.
type ProfileSummary struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Onboarded bool      `json:"onboarded"`
}

// UserSummary is the public shape of a user.
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

func SummarizeProfile(p models.Profile) ProfileSummary {
	return ProfileSummary{
		ID:        p.ID,
		UserID:    p.UserID,
		FirstName: p.User.FirstName,
		LastName:  p.User.LastName,
		Onboarded: p.Onboarded,
	}
}

func SummarizeUser(u models.User) UserSummary {
	return UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}
