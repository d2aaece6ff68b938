package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/indiereel/backend/pkg/db/dbtest"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
)

func TestPackageAmountMinor(t *testing.T) {
	pkg := models.Package{Amount: decimal.RequireFromString("499.50")}
	require.Equal(t, int64(49950), pkg.AmountMinor())

	pkg.Amount = decimal.NewFromInt(1500)
	require.Equal(t, int64(150000), pkg.AmountMinor())
}

func TestContestIsLive(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	contest := models.Contest{StartsAt: start, EndsAt: start.Add(48 * time.Hour)}

	require.False(t, contest.IsLive(start.Add(-time.Second)))
	require.True(t, contest.IsLive(start))
	require.True(t, contest.IsLive(start.Add(24*time.Hour)))
	require.False(t, contest.IsLive(start.Add(48*time.Hour)))
}

func TestBeforeCreateAssignsIDsAndDefaults(t *testing.T) {
	conn := dbtest.Open(t)

	user := models.User{Email: "a@example.com"}
	require.NoError(t, conn.Create(&user).Error)
	require.NotEqual(t, uuid.Nil, user.ID)
	require.Equal(t, enums.UserRoleMember, user.Role)

	order := models.Order{OwnerID: user.ID}
	require.NoError(t, conn.Omit("Owner").Create(&order).Error)

	movie := models.Movie{Title: "Test", Link: "https://example.com", OrderID: order.ID}
	require.NoError(t, conn.Omit("Order").Create(&movie).Error)
	require.NotEqual(t, uuid.Nil, movie.ID)
	require.Equal(t, enums.MovieStateCreated, movie.State)

	var loaded models.Movie
	require.NoError(t, conn.Preload("Order").First(&loaded, "id = ?", movie.ID).Error)
	require.Equal(t, order.ID, loaded.Order.ID)
	require.False(t, loaded.Order.IsPaid())
}

func TestUserFullName(t *testing.T) {
	require.Equal(t, "Ada Lovelace", models.User{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	require.Equal(t, "Ada", models.User{FirstName: "Ada"}.FullName())
}
