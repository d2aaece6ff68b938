package outbox_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiereel/backend/pkg/db/dbtest"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
	"github.com/indiereel/backend/pkg/outbox"
	"github.com/indiereel/backend/pkg/outbox/payloads"
)

func TestEmitWritesEnvelope(t *testing.T) {
	conn := dbtest.Open(t)
	svc := outbox.NewService(outbox.NewRepository(conn), nil)
	movieID := uuid.New()

	err := svc.Emit(context.Background(), conn, outbox.DomainEvent{
		EventType:     enums.EventMovieSubmitted,
		AggregateType: enums.AggregateMovie,
		AggregateID:   movieID,
		Actor:         &outbox.ActorRef{UserID: uuid.New(), Role: "member"},
		Data:          payloads.MovieSubmittedEvent{MovieID: movieID, Title: "Dune"},
	})
	require.NoError(t, err)

	var rows []models.OutboxEvent
	require.NoError(t, conn.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, movieID, rows[0].AggregateID)

	var envelope outbox.PayloadEnvelope
	require.NoError(t, json.Unmarshal(rows[0].Payload, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.NotEmpty(t, envelope.EventID)
	require.NotNil(t, envelope.Actor)
	assert.Equal(t, "member", envelope.Actor.Role)

	var data payloads.MovieSubmittedEvent
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "Dune", data.Title)
}

func TestEmitRejectsUnknownEventType(t *testing.T) {
	conn := dbtest.Open(t)
	svc := outbox.NewService(outbox.NewRepository(conn), nil)

	err := svc.Emit(context.Background(), conn, outbox.DomainEvent{
		EventType:     enums.OutboxEventType("movie.exploded"),
		AggregateType: enums.AggregateMovie,
		AggregateID:   uuid.New(),
	})
	require.Error(t, err)
}

func TestEmitIfNotExistsQueuesOnce(t *testing.T) {
	conn := dbtest.Open(t)
	svc := outbox.NewService(outbox.NewRepository(conn), nil)
	event := outbox.DomainEvent{
		EventType:     enums.EventMoviePaid,
		AggregateType: enums.AggregateMovie,
		AggregateID:   uuid.New(),
		Data:          payloads.MoviePaidEvent{PaymentID: "pay_1"},
	}

	require.NoError(t, svc.EmitIfNotExists(context.Background(), conn, event))
	require.NoError(t, svc.EmitIfNotExists(context.Background(), conn, event))

	var count int64
	require.NoError(t, conn.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRepositoryPublishLifecycle(t *testing.T) {
	conn := dbtest.Open(t)
	repo := outbox.NewRepository(conn)

	first := models.OutboxEvent{EventType: enums.EventReviewRated, AggregateType: enums.AggregateReview, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`)}
	second := models.OutboxEvent{EventType: enums.EventReviewRated, AggregateType: enums.AggregateReview, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`)}
	require.NoError(t, repo.Insert(conn, first))
	require.NoError(t, repo.Insert(conn, second))

	rows, err := repo.FetchUnpublishedForPublish(conn, 10, 3)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NoError(t, repo.MarkPublishedTx(conn, rows[0].ID))
	require.NoError(t, repo.MarkTerminalTx(conn, rows[1].ID, errors.New("boom"), 3))

	rows, err = repo.FetchUnpublishedForPublish(conn, 10, 3)
	require.NoError(t, err)
	assert.Empty(t, rows)

	var terminal models.OutboxEvent
	require.NoError(t, conn.First(&terminal, "attempt_count = ?", 3).Error)
	require.NotNil(t, terminal.LastError)
	assert.Equal(t, "boom", *terminal.LastError)
}

func TestRepositoryMarkFailedIncrementsAttempts(t *testing.T) {
	conn := dbtest.Open(t)
	repo := outbox.NewRepository(conn)
	require.NoError(t, repo.Insert(conn, models.OutboxEvent{EventType: enums.EventMoviePaid, AggregateType: enums.AggregateMovie, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`)}))

	rows, err := repo.FetchUnpublishedForPublish(conn, 10, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, repo.MarkFailedTx(conn, rows[0].ID, errors.New("timeout")))
	require.NoError(t, repo.MarkFailedTx(conn, rows[0].ID, errors.New("timeout")))

	var row models.OutboxEvent
	require.NoError(t, conn.First(&row, "id = ?", rows[0].ID).Error)
	assert.Equal(t, 2, row.AttemptCount)
}

func TestRepositoryDeletePublishedBefore(t *testing.T) {
	conn := dbtest.Open(t)
	repo := outbox.NewRepository(conn)
	old := time.Now().UTC().Add(-40 * 24 * time.Hour)
	recent := time.Now().UTC()

	require.NoError(t, conn.Create(&models.OutboxEvent{EventType: enums.EventMoviePaid, AggregateType: enums.AggregateMovie, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`), PublishedAt: &old}).Error)
	require.NoError(t, conn.Create(&models.OutboxEvent{EventType: enums.EventMoviePaid, AggregateType: enums.AggregateMovie, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`), PublishedAt: &recent}).Error)
	require.NoError(t, conn.Create(&models.OutboxEvent{EventType: enums.EventMoviePaid, AggregateType: enums.AggregateMovie, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`)}).Error)

	deleted, err := repo.DeletePublishedBefore(context.Background(), conn, time.Now().UTC().Add(-30*24*time.Hour), 5)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining int64
	require.NoError(t, conn.Model(&models.OutboxEvent{}).Count(&remaining).Error)
	assert.EqualValues(t, 2, remaining)
}

func TestDLQRepositoryTruncatesMessage(t *testing.T) {
	conn := dbtest.Open(t)
	repo := outbox.NewDLQRepository(conn)
	eventID := uuid.New()
	long := make([]byte, 2048)
	for i := range long {
		long[i] = 'x'
	}
	msg := string(long)

	require.NoError(t, repo.InsertTx(conn, models.OutboxDLQ{
		EventID:       eventID,
		EventType:     enums.EventMoviePaid,
		AggregateType: enums.AggregateMovie,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{}`),
		ErrorReason:   enums.OutboxDLQReasonMaxAttempts,
		ErrorMessage:  &msg,
	}))

	entry, err := repo.FindByEventID(context.Background(), eventID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.NotNil(t, entry.ErrorMessage)
	assert.Len(t, *entry.ErrorMessage, 1024)

	missing, err := repo.FindByEventID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDLQRequeueReplayable(t *testing.T) {
	conn := dbtest.Open(t)
	repo := outbox.NewDLQRepository(conn)
	outboxRepo := outbox.NewRepository(conn)

	parked := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventMoviePaid,
		AggregateType: enums.AggregateMovie,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"version":1}`),
	}
	require.NoError(t, outboxRepo.Insert(conn, parked))
	require.NoError(t, outboxRepo.MarkTerminalTx(conn, parked.ID, errors.New("pubsub down"), 10))

	purgedID := uuid.New()
	entries := []models.OutboxDLQ{
		{EventID: parked.ID, EventType: parked.EventType, AggregateType: parked.AggregateType, AggregateID: parked.AggregateID, Payload: parked.Payload, ErrorReason: enums.OutboxDLQReasonMaxAttempts},
		{EventID: purgedID, EventType: enums.EventMovieSubmitted, AggregateType: enums.AggregateMovie, AggregateID: uuid.New(), Payload: json.RawMessage(`{"version":1}`), ErrorReason: enums.OutboxDLQReasonMaxAttempts},
		{EventID: uuid.New(), EventType: enums.EventReviewRated, AggregateType: enums.AggregateReview, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`), ErrorReason: enums.OutboxDLQReasonUnknownEvent},
	}
	for _, entry := range entries {
		require.NoError(t, repo.InsertTx(conn, entry))
	}

	n, err := repo.RequeueReplayable(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var reset models.OutboxEvent
	require.NoError(t, conn.First(&reset, "id = ?", parked.ID).Error)
	assert.Zero(t, reset.AttemptCount)
	assert.Nil(t, reset.LastError)

	var restored models.OutboxEvent
	require.NoError(t, conn.First(&restored, "id = ?", purgedID).Error)
	assert.Equal(t, enums.EventMovieSubmitted, restored.EventType)

	var left int64
	require.NoError(t, conn.Model(&models.OutboxDLQ{}).Count(&left).Error)
	assert.EqualValues(t, 1, left)
}

func TestDLQTruncateKeepsRunesWhole(t *testing.T) {
	conn := dbtest.Open(t)
	repo := outbox.NewDLQRepository(conn)
	eventID := uuid.New()
	msg := "x" + strings.Repeat("é", 1024)

	require.NoError(t, repo.InsertTx(conn, models.OutboxDLQ{
		EventID:       eventID,
		EventType:     enums.EventMoviePaid,
		AggregateType: enums.AggregateMovie,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{}`),
		ErrorReason:   enums.OutboxDLQReasonNonRetryable,
		ErrorMessage:  &msg,
	}))

	entry, err := repo.FindByEventID(context.Background(), eventID)
	require.NoError(t, err)
	require.NotNil(t, entry.ErrorMessage)
	assert.True(t, utf8.ValidString(*entry.ErrorMessage))
	assert.LessOrEqual(t, len(*entry.ErrorMessage), 1024)
}
