package jobs

import (
	"log"
	"time"

	"agency-admin-server/services"
)

// TokenCleanupJob removes expired and revoked refresh tokens daily
type TokenCleanupJob struct {
	jwt      *services.JWTService
	stopChan chan bool
}

// NewTokenCleanupJob creates a new token cleanup job
func NewTokenCleanupJob(jwt *services.JWTService) *TokenCleanupJob {
	return &TokenCleanupJob{
		jwt:      jwt,
		stopChan: make(chan bool),
	}
}

// Start begins the cleanup job
func (j *TokenCleanupJob) Start() {
	go j.run()
	log.Println("🚀 Refresh token cleanup job started")
}

// Stop stops the cleanup job
func (j *TokenCleanupJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Refresh token cleanup job stopped")
}

func (j *TokenCleanupJob) run() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.jwt.CleanupExpiredTokens(); err != nil {
				log.Printf("❌ Error cleaning up refresh tokens: %v", err)
			}
		case <-j.stopChan:
			return
		}
	}
}
