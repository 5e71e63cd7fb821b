package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"agency-admin-server/models"
)

// CommentRetention is how long review comments are kept before pruning
const CommentRetention = 7 * 24 * time.Hour

// RetentionJob prunes review comments older than the retention window
type RetentionJob struct {
	db       *gorm.DB
	stopChan chan bool
}

// NewRetentionJob creates a new retention job
func NewRetentionJob(db *gorm.DB) *RetentionJob {
	return &RetentionJob{
		db:       db,
		stopChan: make(chan bool),
	}
}

// Start begins the retention job
func (j *RetentionJob) Start() {
	go j.run()
	log.Println("🚀 Comment retention job started")
}

// Stop stops the retention job
func (j *RetentionJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Comment retention job stopped")
}

func (j *RetentionJob) run() {
	// Prune once at startup, then daily
	j.pruneOldComments()

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.pruneOldComments()
		case <-j.stopChan:
			return
		}
	}
}

// pruneCutoffAt returns the timestamp before which comments are deleted
func pruneCutoffAt(now time.Time) time.Time {
	return now.Add(-CommentRetention)
}

// pruneOldComments deletes comments past the retention window
func (j *RetentionJob) pruneOldComments() {
	cutoff := pruneCutoffAt(time.Now())

	result := j.db.Where("created_at < ?", cutoff).Delete(&models.Comment{})
	if result.Error != nil {
		log.Printf("❌ Error pruning old comments: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("🧹 Pruned %d comments older than %v", result.RowsAffected, CommentRetention)
	}
}
