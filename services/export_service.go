package services

import (
	"strconv"
	"strings"
	"time"

	"agency-admin-server/models"
)

// CSV export is a synchronous in-memory build over the already-fetched,
// filtered list. Fields are comma-delimited and every field is
// double-quoted, with embedded quotes doubled.

// ReviewsCSVHeader is the fixed header row of the review panel export
var ReviewsCSVHeader = []string{
	"ID", "Full Name", "Email", "Phone", "Company", "Service Interest",
	"Priority", "Client Status", "Assigned To", "Created At",
}

// BugReportsCSVHeader is the fixed header row of the bug panel export
var BugReportsCSVHeader = []string{
	"ID", "Email", "Subject", "Message", "Priority", "Status", "Created At",
}

// BuildReviewsCSV renders the review panel export
func BuildReviewsCSV(reviews []models.Review) string {
	var b strings.Builder
	writeCSVRow(&b, ReviewsCSVHeader)
	for _, r := range reviews {
		writeCSVRow(&b, []string{
			formatUint(r.ID),
			r.FullName,
			r.Email,
			r.Phone,
			r.Company,
			r.ServiceInterest,
			string(r.Priority),
			string(r.ClientStatus),
			r.AssignedToName,
			r.CreatedAt.Format(time.RFC3339),
		})
	}
	return b.String()
}

// BuildBugReportsCSV renders the bug panel export
func BuildBugReportsCSV(reports []models.BugReport) string {
	var b strings.Builder
	writeCSVRow(&b, BugReportsCSVHeader)
	for _, r := range reports {
		writeCSVRow(&b, []string{
			formatUint(r.ID),
			r.Email,
			r.Subject,
			r.Message,
			string(r.Priority),
			string(r.Status),
			r.CreatedAt.Format(time.RFC3339),
		})
	}
	return b.String()
}

// writeCSVRow writes one row with every field double-quoted
func writeCSVRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
}

func formatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
