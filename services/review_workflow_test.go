package services

import (
	"testing"

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

func TestEnteredHighTier(t *testing.T) {
	tests := []struct {
		name     string
		old      models.ReviewPriority
		new      models.ReviewPriority
		expected bool
	}{
		{"low to high", models.PriorityLow, models.PriorityHigh, true},
		{"low to highest", models.PriorityLow, models.PriorityHighest, true},
		{"medium to high", models.PriorityMedium, models.PriorityHigh, true},
		{"high to highest stays in tier", models.PriorityHigh, models.PriorityHighest, false},
		{"highest to high stays in tier", models.PriorityHighest, models.PriorityHigh, false},
		{"high to low leaves tier", models.PriorityHigh, models.PriorityLow, false},
		{"low to medium below tier", models.PriorityLow, models.PriorityMedium, false},
		{"high to high unchanged", models.PriorityHigh, models.PriorityHigh, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, enteredHighTier(tt.old, tt.new))
		})
	}
}

func TestChunkIDs(t *testing.T) {
	makeIDs := func(n int) []uint {
		ids := make([]uint, n)
		for i := range ids {
			ids[i] = uint(i + 1)
		}
		return ids
	}

	tests := []struct {
		name    string
		count   int
		batches int
	}{
		{"single id", 1, 1},
		{"exactly one batch", 500, 1},
		{"one over", 501, 2},
		{"two and a half batches", 1250, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkIDs(makeIDs(tt.count), BulkDeleteBatchSize)
			assert.Len(t, chunks, tt.batches)

			total := 0
			for _, chunk := range chunks {
				assert.LessOrEqual(t, len(chunk), BulkDeleteBatchSize)
				total += len(chunk)
			}
			assert.Equal(t, tt.count, total)
		})
	}

	assert.Nil(t, chunkIDs(nil, BulkDeleteBatchSize))
	assert.Nil(t, chunkIDs([]uint{1}, 0))
}

func reviewRow(id uint, priority models.ReviewPriority, status models.ClientStatus, assignedTo interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "full_name", "email", "priority", "client_status", "assigned_to"}).
		AddRow(id, "Jane Client", "jane@example.com", string(priority), string(status), assignedTo)
}

func adminRow(id uint, role models.AdminRole, status models.AdminStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "role", "status"}).
		AddRow(id, "bob", "bob@example.com", string(role), string(status))
}

func TestAssignWritesNotificationAndEmailIntent(t *testing.T) {
	db, mock := newTestDB(t)
	service := NewReviewWorkflowService(db, nil)

	actor := models.Admin{ID: 3, Username: "alice", Role: models.RoleAdmin, Status: models.AdminStatusApproved}
	targetID := uint(2)

	mock.ExpectQuery(`SELECT \* FROM "reviews"`).
		WillReturnRows(reviewRow(1, models.PriorityLow, models.ClientStatusPending, nil))
	mock.ExpectQuery(`SELECT \* FROM "admins"`).
		WillReturnRows(adminRow(2, models.RoleAdmin, models.AdminStatusApproved))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reviews" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "outbox_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	review, err := service.Assign(1, &targetID, "bob", actor)
	require.NoError(t, err)
	require.NotNil(t, review.AssignedTo)
	assert.Equal(t, targetID, *review.AssignedTo)
	assert.Equal(t, "bob", review.AssignedToName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnassignWritesNoNotification(t *testing.T) {
	db, mock := newTestDB(t)
	service := NewReviewWorkflowService(db, nil)

	actor := models.Admin{ID: 3, Username: "alice", Role: models.RoleAdmin, Status: models.AdminStatusApproved}

	mock.ExpectQuery(`SELECT \* FROM "reviews"`).
		WillReturnRows(reviewRow(1, models.PriorityLow, models.ClientStatusPending, 2))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reviews" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	review, err := service.Assign(1, nil, "", actor)
	require.NoError(t, err)
	assert.Nil(t, review.AssignedTo)
	assert.Empty(t, review.AssignedToName)

	// No INSERT was expected, so a notification write would fail the mock
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignToSuperAdminRejectedForRegularActor(t *testing.T) {
	db, mock := newTestDB(t)
	service := NewReviewWorkflowService(db, nil)

	actor := models.Admin{ID: 3, Username: "alice", Role: models.RoleAdmin, Status: models.AdminStatusApproved}
	targetID := uint(9)

	mock.ExpectQuery(`SELECT \* FROM "reviews"`).
		WillReturnRows(reviewRow(1, models.PriorityLow, models.ClientStatusPending, nil))
	mock.ExpectQuery(`SELECT \* FROM "admins"`).
		WillReturnRows(adminRow(9, models.RoleSuperAdmin, models.AdminStatusApproved))

	_, err := service.Assign(1, &targetID, "boss", actor)
	assert.ErrorIs(t, err, ErrAssignSuperAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePriorityWithinHighTierSkipsNotification(t *testing.T) {
	db, mock := newTestDB(t)
	service := NewReviewWorkflowService(db, nil)

	// Assigned to admin 2, changed by admin 3: high -> highest must not
	// produce a second escalation notification
	actor := models.Admin{ID: 3, Username: "alice", Role: models.RoleAdmin, Status: models.AdminStatusApproved}

	mock.ExpectQuery(`SELECT \* FROM "reviews"`).
		WillReturnRows(reviewRow(1, models.PriorityHigh, models.ClientStatusPending, 2))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reviews" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	review, err := service.UpdatePriority(1, models.PriorityHighest, actor)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHighest, review.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePriorityEnteringHighTierNotifiesAssignee(t *testing.T) {
	db, mock := newTestDB(t)
	service := NewReviewWorkflowService(db, nil)

	actor := models.Admin{ID: 3, Username: "alice", Role: models.RoleAdmin, Status: models.AdminStatusApproved}

	mock.ExpectQuery(`SELECT \* FROM "reviews"`).
		WillReturnRows(reviewRow(1, models.PriorityMedium, models.ClientStatusPending, 2))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reviews" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	_, err := service.UpdatePriority(1, models.PriorityHigh, actor)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePriorityRejectsUnknownValue(t *testing.T) {
	db, _ := newTestDB(t)
	service := NewReviewWorkflowService(db, nil)

	_, err := service.UpdatePriority(1, models.ReviewPriority("urgent"), models.Admin{ID: 1})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestBulkDeleteBatches(t *testing.T) {
	db, mock := newTestDB(t)
	service := NewReviewWorkflowService(db, nil)

	ids := make([]uint, 501)
	for i := range ids {
		ids[i] = uint(i + 1)
	}

	// 501 ids -> two delete statements
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "reviews"`).
			WillReturnResult(sqlmock.NewResult(0, 500))
		mock.ExpectCommit()
	}

	completed, err := service.BulkDelete(ids)
	require.NoError(t, err)
	assert.Equal(t, 2, completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
