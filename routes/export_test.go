package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agency-admin-server/database"
)

// swaps the global DB for a sqlmock-backed one for the duration of a test
func useMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	previous := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = previous
		sqlDB.Close()
	})
	return mock
}

func serveExport(handler gin.HandlerFunc, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/export", handler)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestExportReviewsAppliesPriorityFilter(t *testing.T) {
	mock := useMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "priority", "client_status", "created_at"}).
		AddRow(1, "Nora Vane", "nora@example.com", "high", "new", time.Now())
	mock.ExpectQuery(`SELECT \* FROM "reviews" WHERE priority = `).WillReturnRows(rows)

	w := serveExport(exportReviews, "/export?priority=high")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), `"Full Name"`)
	assert.Contains(t, w.Body.String(), `"Nora Vane"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportReviewsAppliesUnassignedFilter(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "reviews" WHERE assigned_to IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := serveExport(exportReviews, "/export?assigned_to=none")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportBugReportsAppliesStatusFilter(t *testing.T) {
	mock := useMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "email", "subject", "message", "priority", "status", "created_at"}).
		AddRow(7, "bug@example.com", "Broken link", "The pricing page 404s", "medium", "open", time.Now())
	mock.ExpectQuery(`SELECT \* FROM "bug_reports" WHERE status = `).WillReturnRows(rows)

	w := serveExport(exportBugReports, "/export?status=open")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Broken link"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
