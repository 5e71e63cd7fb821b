package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"agency-admin-server/models"
)

const (
	outboxPollInterval = 30 * time.Second
	outboxBatchSize    = 50
	outboxMaxAttempts  = 5
)

// Sender delivers an outbox event to its destination
type Sender interface {
	Enabled() bool
	Deliver(event *models.OutboxEvent) error
}

// OutboxDispatcher drains pending outbox events and hands them to a Sender.
// Events are written transactionally with the mutation that caused them, so a
// crash between commit and delivery only delays the email instead of losing it.
type OutboxDispatcher struct {
	db       *gorm.DB
	sender   Sender
	stopChan chan bool
}

// NewOutboxDispatcher creates a new outbox dispatcher
func NewOutboxDispatcher(db *gorm.DB, sender Sender) *OutboxDispatcher {
	return &OutboxDispatcher{
		db:       db,
		sender:   sender,
		stopChan: make(chan bool),
	}
}

// Start begins the dispatch loop
func (d *OutboxDispatcher) Start() {
	go d.run()
	log.Println("🚀 Outbox dispatcher started")
}

// Stop stops the dispatch loop
func (d *OutboxDispatcher) Stop() {
	d.stopChan <- true
	log.Println("🛑 Outbox dispatcher stopped")
}

func (d *OutboxDispatcher) run() {
	ticker := time.NewTicker(outboxPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.dispatchPending()
		case <-d.stopChan:
			return
		}
	}
}

// backoffDelay returns the wait before retry attempt n (1-based), doubling
// from one minute and capped at an hour.
func backoffDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Minute << (attempts - 1)
	if delay > time.Hour {
		delay = time.Hour
	}
	return delay
}

// dispatchPending delivers due pending events, retrying failures with backoff
func (d *OutboxDispatcher) dispatchPending() {
	now := time.Now()

	var events []models.OutboxEvent
	err := d.db.Where("status = ? AND next_attempt_at <= ?", models.OutboxPending, now).
		Order("id ASC").
		Limit(outboxBatchSize).
		Find(&events).Error
	if err != nil {
		log.Printf("❌ Error loading pending outbox events: %v", err)
		return
	}

	for i := range events {
		d.dispatch(&events[i])
	}
}

func (d *OutboxDispatcher) dispatch(event *models.OutboxEvent) {
	err := d.sender.Deliver(event)
	if err == nil {
		updates := map[string]interface{}{
			"status":     models.OutboxSent,
			"attempts":   event.Attempts + 1,
			"last_error": "",
		}
		if uerr := d.db.Model(event).Updates(updates).Error; uerr != nil {
			log.Printf("❌ Failed to mark outbox event %s as sent: %v", event.EventID, uerr)
		}
		return
	}

	attempts := event.Attempts + 1
	updates := map[string]interface{}{
		"attempts":   attempts,
		"last_error": err.Error(),
	}
	if attempts >= outboxMaxAttempts {
		updates["status"] = models.OutboxFailed
		log.Printf("❌ Outbox event %s failed permanently after %d attempts: %v", event.EventID, attempts, err)
	} else {
		updates["next_attempt_at"] = time.Now().Add(backoffDelay(attempts))
		log.Printf("⚠️ Outbox event %s delivery failed (attempt %d): %v", event.EventID, attempts, err)
	}

	if uerr := d.db.Model(event).Updates(updates).Error; uerr != nil {
		log.Printf("❌ Failed to update outbox event %s: %v", event.EventID, uerr)
	}
}
