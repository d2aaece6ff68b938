package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/indiereel/backend/internal/repo"
	"github.com/indiereel/backend/pkg/db/models"
)

// Contact identifies a person by email; used when someone else names them as
// director or crew.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Mobile    *string
}

// EnsureUser returns the user owning contact.Email, provisioning an unverified
// account when none exists.
func EnsureUser(ctx context.Context, r Repository, contact Contact) (*models.User, error) {
	email := NormalizeEmail(contact.Email)
	if email == "" {
		return nil, fmt.Errorf("contact email required")
	}
	user, err := r.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !repo.IsNotFound(err) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	user = &models.User{
		Email:     email,
		FirstName: strings.TrimSpace(contact.FirstName),
		LastName:  strings.TrimSpace(contact.LastName),
	}
	if err := r.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// EnsureProfileForUser returns the user's profile, creating a non-onboarded
// one on first use.
func EnsureProfileForUser(ctx context.Context, r Repository, user *models.User, mobile *string) (*models.Profile, error) {
	profile, err := r.FindProfileByUserID(ctx, user.ID)
	if err == nil {
		return profile, nil
	}
	if !repo.IsNotFound(err) {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	profile = &models.Profile{UserID: user.ID, Mobile: mobile}
	if err := r.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	profile.User = *user
	return profile, nil
}

// EnsureProfile resolves the profile of a contact, provisioning the user and
// profile when they do not exist yet.
func EnsureProfile(ctx context.Context, r Repository, contact Contact) (*models.Profile, error) {
	profile, err := r.FindProfileByEmail(ctx, contact.Email)
	if err == nil {
		return profile, nil
	}
	if !repo.IsNotFound(err) {
		return nil, fmt.Errorf("find profile by email: %w", err)
	}
	user, err := EnsureUser(ctx, r, contact)
	if err != nil {
		return nil, err
	}
	return EnsureProfileForUser(ctx, r, user, contact.Mobile)
}

// SplitName breaks a full name into first name and the remainder.
func SplitName(full string) (string, string) {
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
