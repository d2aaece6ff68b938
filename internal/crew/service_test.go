package crew

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/indiereel/backend/internal/catalog"
	"github.com/indiereel/backend/internal/users"
	"github.com/indiereel/backend/pkg/db"
	"github.com/indiereel/backend/pkg/db/dbtest"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
	"github.com/indiereel/backend/pkg/logger"
	"github.com/indiereel/backend/pkg/outbox"
)

type fixture struct {
	conn     *gorm.DB
	svc      Service
	roles    map[string]models.Role
	movie    models.Movie
	director models.User
	member   models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.Open(t)
	roles := dbtest.SeedRoles(t, conn, "Director", "Actor", "Editor")
	director, directorProfile := dbtest.SeedUser(t, conn, "director@example.com", "Satyajit", "Ray")
	member, _ := dbtest.SeedUser(t, conn, "member@example.com", "Soumitra", "Chatterjee")
	movie := dbtest.SeedMovie(t, conn, director, "Charulata")
	dbtest.SeedCrew(t, conn, movie.ID, directorProfile, roles["Director"])

	logg := logger.New(logger.Options{ServiceName: "crew-test", Output: &bytes.Buffer{}})
	svc, err := NewService(
		NewRepository(conn),
		users.NewRepository(conn),
		catalog.NewRepository(conn),
		db.NewFromConn(conn),
		outbox.NewService(outbox.NewRepository(conn), logg),
		logg,
	)
	require.NoError(t, err)
	return &fixture{conn: conn, svc: svc, roles: roles, movie: movie, director: director, member: member}
}

func (f *fixture) crewCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.conn.Model(&models.CrewMember{}).Where("movie_id = ?", f.movie.ID).Count(&n).Error)
	return n
}

func TestCreateRequestsByMemberArePending(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.CreateRequests(context.Background(), f.member.ID, CreateRequestsRequest{
		MovieID: f.movie.ID,
		Name:    "Madhabi Mukherjee Roy",
		Email:   "Madhabi@Example.com",
		Roles:   []string{"actor", "Editor", "Actor"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, r := range out {
		assert.Equal(t, enums.CrewRequestSubmitted, r.State)
		assert.Equal(t, "Madhabi", r.User.FirstName)
		assert.Equal(t, "Mukherjee Roy", r.User.LastName)
		assert.Equal(t, f.member.ID, r.Requestor.ID)
	}
	assert.EqualValues(t, 1, f.crewCount(t))

	var provisioned models.User
	require.NoError(t, f.conn.First(&provisioned, "email = ?", "madhabi@example.com").Error)
	assert.False(t, provisioned.IsVerified)

	var events int64
	require.NoError(t, f.conn.Model(&models.OutboxEvent{}).
		Where("event_type = ?", enums.EventCrewRequestCreated).Count(&events).Error)
	assert.EqualValues(t, 2, events)
}

func TestCreateRequestsByDirectorAreApproved(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.CreateRequests(context.Background(), f.director.ID, CreateRequestsRequest{
		MovieID: f.movie.ID,
		Name:    "Soumitra Chatterjee",
		Email:   "member@example.com",
		Roles:   []string{"Actor"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, enums.CrewRequestApproved, out[0].State)
	assert.EqualValues(t, 2, f.crewCount(t))

	_, err = f.svc.CreateRequests(context.Background(), f.director.ID, CreateRequestsRequest{
		MovieID: f.movie.ID,
		Name:    "Soumitra Chatterjee",
		Email:   "member@example.com",
		Roles:   []string{"Actor"},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestCreateRequestsRejectsDirectorRoleAndUnknownMovie(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateRequests(ctx, f.member.ID, CreateRequestsRequest{
		MovieID: f.movie.ID, Name: "X", Email: "x@example.com", Roles: []string{"Director"},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.CreateRequests(ctx, f.member.ID, CreateRequestsRequest{
		MovieID: f.member.ID, Name: "X", Email: "x@example.com", Roles: []string{"Actor"},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	var count int64
	require.NoError(t, f.conn.Model(&models.User{}).Where("email = ?", "x@example.com").Count(&count).Error)
	assert.Zero(t, count)
}

func TestDecideApproveMaterializesCrew(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := f.svc.CreateRequests(ctx, f.member.ID, CreateRequestsRequest{
		MovieID: f.movie.ID, Name: "Sailen Mukherjee", Email: "sailen@example.com", Roles: []string{"Actor"},
	})
	require.NoError(t, err)
	requestID := out[0].ID

	_, err = f.svc.Decide(ctx, f.member.ID, requestID, DecisionRequest{Decision: "approve"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	decided, err := f.svc.Decide(ctx, f.director.ID, requestID, DecisionRequest{Decision: "approve"})
	require.NoError(t, err)
	assert.Equal(t, enums.CrewRequestApproved, decided.State)
	assert.EqualValues(t, 2, f.crewCount(t))

	var profile models.Profile
	require.NoError(t, f.conn.Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.email = ?", "sailen@example.com").First(&profile).Error)
	assert.False(t, profile.Onboarded)

	_, err = f.svc.Decide(ctx, f.director.ID, requestID, DecisionRequest{Decision: "reject"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestDecideRejectLeavesCrewUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := f.svc.CreateRequests(ctx, f.member.ID, CreateRequestsRequest{
		MovieID: f.movie.ID, Name: "Someone", Email: "someone@example.com", Roles: []string{"Editor"},
	})
	require.NoError(t, err)

	decided, err := f.svc.Decide(ctx, f.director.ID, out[0].ID, DecisionRequest{Decision: "reject"})
	require.NoError(t, err)
	assert.Equal(t, enums.CrewRequestRejected, decided.State)
	assert.EqualValues(t, 1, f.crewCount(t))

	_, err = f.svc.Decide(ctx, f.director.ID, out[0].ID, DecisionRequest{Decision: "maybe"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListMine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreateRequests(ctx, f.member.ID, CreateRequestsRequest{
		MovieID: f.movie.ID, Name: "Someone", Email: "someone@example.com", Roles: []string{"Editor"},
	})
	require.NoError(t, err)

	mine, err := f.svc.ListMine(ctx, f.member.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Charulata", mine[0].MovieTitle)

	none, err := f.svc.ListMine(ctx, f.director.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
