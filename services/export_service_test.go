package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-admin-server/models"
)

func TestBuildReviewsCSVQuotesEveryField(t *testing.T) {
	created := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	reviews := []models.Review{
		{
			ID:              1,
			FullName:        "Jane Client",
			Email:           "jane@example.com",
			Phone:           "",
			Company:         "Acme",
			ServiceInterest: "SEO",
			Priority:        models.PriorityHigh,
			ClientStatus:    models.ClientStatusPending,
			AssignedToName:  "bob",
			CreatedAt:       created,
		},
	}

	csv := BuildReviewsCSV(reviews)
	lines := strings.Split(strings.TrimSuffix(csv, "\r\n"), "\r\n")
	require.Len(t, lines, 2)

	assert.Equal(t, `"ID","Full Name","Email","Phone","Company","Service Interest","Priority","Client Status","Assigned To","Created At"`, lines[0])
	assert.Equal(t, `"1","Jane Client","jane@example.com","","Acme","SEO","high","Pending","bob","2025-01-15T12:00:00Z"`, lines[1])
}

func TestBuildBugReportsCSVEscapesQuotes(t *testing.T) {
	created := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	reports := []models.BugReport{
		{
			ID:        3,
			Email:     "user@example.com",
			Subject:   `Button says "Submit" twice`,
			Message:   "Steps:\nclick, wait",
			Priority:  models.PriorityLow,
			Status:    models.BugStatusUnresolved,
			CreatedAt: created,
		},
	}

	csv := BuildBugReportsCSV(reports)

	assert.True(t, strings.HasPrefix(csv, `"ID","Email","Subject","Message","Priority","Status","Created At"`))
	assert.Contains(t, csv, `"Button says ""Submit"" twice"`)
	assert.True(t, strings.HasSuffix(csv, "\r\n"))
}

func TestWriteCSVRowAlwaysQuotes(t *testing.T) {
	var b strings.Builder
	writeCSVRow(&b, []string{"plain", "", "with,comma", `with"quote`})

	assert.Equal(t, `"plain","","with,comma","with""quote"`+"\r\n", b.String())
}
