// Package dbtest opens throwaway sqlite databases carrying the full schema.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/indiereel/backend/pkg/db/models"
)

// Open returns an isolated in-memory database migrated with every model.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:ir_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// SeedRoles inserts the given crew roles and returns them keyed by name.
func SeedRoles(t testing.TB, conn *gorm.DB, names ...string) map[string]models.Role {
	t.Helper()
	out := make(map[string]models.Role, len(names))
	for _, name := range names {
		role := models.Role{Name: name}
		if err := conn.Create(&role).Error; err != nil {
			t.Fatalf("seed role %s: %v", name, err)
		}
		out[name] = role
	}
	return out
}

// SeedUser inserts a verified user with a profile.
func SeedUser(t testing.TB, conn *gorm.DB, email, first, last string) (models.User, models.Profile) {
	t.Helper()
	user := models.User{Email: email, FirstName: first, LastName: last, IsVerified: true}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	profile := models.Profile{UserID: user.ID, Onboarded: true}
	if err := conn.Omit("User").Create(&profile).Error; err != nil {
		t.Fatalf("seed profile %s: %v", email, err)
	}
	profile.User = user
	return user, profile
}

// MovieSeed customizes a seeded movie before insert.
type MovieSeed func(*models.Movie)

// SeedMovie inserts a movie with its order owned by owner.
func SeedMovie(t testing.TB, conn *gorm.DB, owner models.User, title string, opts ...MovieSeed) models.Movie {
	t.Helper()
	order := models.Order{OwnerID: owner.ID, Currency: "INR"}
	if err := conn.Omit("Owner").Create(&order).Error; err != nil {
		t.Fatalf("seed order %s: %v", title, err)
	}
	movie := models.Movie{Title: title, Link: "https://video.test/" + uuid.NewString(), OrderID: order.ID}
	for _, opt := range opts {
		opt(&movie)
	}
	if err := conn.Omit("Language", "Package", "Order", "Contest", "Genres", "CrewMembers").Create(&movie).Error; err != nil {
		t.Fatalf("seed movie %s: %v", title, err)
	}
	movie.Order = order
	return movie
}

// SeedCrew credits profile with role on movie.
func SeedCrew(t testing.TB, conn *gorm.DB, movieID uuid.UUID, profile models.Profile, role models.Role) models.CrewMember {
	t.Helper()
	member := models.CrewMember{MovieID: movieID, ProfileID: profile.ID, RoleID: role.ID}
	if err := conn.Omit("Profile", "Role").Create(&member).Error; err != nil {
		t.Fatalf("seed crew: %v", err)
	}
	return member
}
