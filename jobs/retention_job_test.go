package jobs

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPruneCutoffBoundary(t *testing.T) {
	now := time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)
	cutoff := pruneCutoffAt(now)

	assert.Equal(t, now.Add(-7*24*time.Hour), cutoff)

	// A comment six days and 23 hours old is retained
	almostWeekOld := now.Add(-(6*24 + 23) * time.Hour)
	assert.True(t, almostWeekOld.After(cutoff))

	// A comment just past seven days is pruned
	justOverWeekOld := now.Add(-7*24*time.Hour - time.Second)
	assert.True(t, justOverWeekOld.Before(cutoff))
}

func TestPruneOldCommentsIssuesDelete(t *testing.T) {
	db, mock := newTestDB(t)
	job := NewRetentionJob(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "comments" WHERE created_at <`).
		WillReturnResult(sqlmock.NewResult(0, 12))
	mock.ExpectCommit()

	job.pruneOldComments()

	assert.NoError(t, mock.ExpectationsWereMet())
}
