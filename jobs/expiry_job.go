package jobs

import (
	"log"
	"time"

	"agency-admin-server/services"
)

// ExpiryJob sweeps expired notifications out of the database
type ExpiryJob struct {
	notifications *services.NotificationService
	stopChan      chan bool
}

// NewExpiryJob creates a new notification expiry job
func NewExpiryJob(notifications *services.NotificationService) *ExpiryJob {
	return &ExpiryJob{
		notifications: notifications,
		stopChan:      make(chan bool),
	}
}

// Start begins the expiry job
func (j *ExpiryJob) Start() {
	go j.run()
	log.Println("🚀 Notification expiry job started")
}

// Stop stops the expiry job
func (j *ExpiryJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Notification expiry job stopped")
}

func (j *ExpiryJob) run() {
	j.sweep()

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stopChan:
			return
		}
	}
}

func (j *ExpiryJob) sweep() {
	deleted, err := j.notifications.DeleteExpired(time.Now())
	if err != nil {
		log.Printf("❌ Error sweeping expired notifications: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("🧹 Removed %d expired notifications", deleted)
	}
}
