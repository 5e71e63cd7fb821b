package jobs

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agency-admin-server/models"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

type fakeSender struct {
	delivered []models.OutboxKind
	err       error
}

func (f *fakeSender) Enabled() bool { return true }

func (f *fakeSender) Deliver(event *models.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, event.Kind)
	return nil
}

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		attempts int
		expected time.Duration
	}{
		{0, time.Minute},
		{1, time.Minute},
		{2, 2 * time.Minute},
		{3, 4 * time.Minute},
		{4, 8 * time.Minute},
		{5, 16 * time.Minute},
		{7, time.Hour},
		{20, time.Hour},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, backoffDelay(tt.attempts), "attempts=%d", tt.attempts)
	}
}

func TestDispatchMarksEventSent(t *testing.T) {
	db, mock := newTestDB(t)
	sender := &fakeSender{}
	dispatcher := NewOutboxDispatcher(db, sender)

	event := &models.OutboxEvent{
		ID:      1,
		EventID: "evt-1",
		Kind:    models.OutboxAssignmentEmail,
		Payload: `{"to":"bob@example.com"}`,
		Status:  models.OutboxPending,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "outbox_events" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	dispatcher.dispatch(event)

	assert.Equal(t, []models.OutboxKind{models.OutboxAssignmentEmail}, sender.delivered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchSchedulesRetryOnFailure(t *testing.T) {
	db, mock := newTestDB(t)
	sender := &fakeSender{err: errors.New("smtp unreachable")}
	dispatcher := NewOutboxDispatcher(db, sender)

	event := &models.OutboxEvent{
		ID:       2,
		EventID:  "evt-2",
		Kind:     models.OutboxConfirmationEmail,
		Status:   models.OutboxPending,
		Attempts: 0,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "outbox_events" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	dispatcher.dispatch(event)

	assert.Empty(t, sender.delivered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchPendingDrainsDueEvents(t *testing.T) {
	db, mock := newTestDB(t)
	sender := &fakeSender{}
	dispatcher := NewOutboxDispatcher(db, sender)

	rows := sqlmock.NewRows([]string{"id", "event_id", "kind", "payload", "status", "attempts"}).
		AddRow(1, "evt-1", string(models.OutboxAssignmentEmail), `{}`, string(models.OutboxPending), 0).
		AddRow(2, "evt-2", string(models.OutboxBugResolvedEmail), `{}`, string(models.OutboxPending), 1)

	mock.ExpectQuery(`SELECT \* FROM "outbox_events"`).WillReturnRows(rows)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "outbox_events" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	dispatcher.dispatchPending()

	assert.Equal(t, []models.OutboxKind{models.OutboxAssignmentEmail, models.OutboxBugResolvedEmail}, sender.delivered)
	assert.NoError(t, mock.ExpectationsWereMet())
}
