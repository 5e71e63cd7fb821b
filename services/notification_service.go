package services

import (
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"

	"agency-admin-server/models"
	ws "agency-admin-server/websocket"
)

// NotificationService writes time-boxed notification records and pushes
// them to connected admins over the WebSocket hub.
type NotificationService struct {
	db  *gorm.DB
	hub *ws.Hub
}

// NewNotificationService creates a new notification service. The hub may be
// nil; live push is then skipped.
func NewNotificationService(db *gorm.DB, hub *ws.Hub) *NotificationService {
	return &NotificationService{db: db, hub: hub}
}

// BuildNotification assembles a notification record. ExpiresAt is always
// exactly NotificationTTL past CreatedAt.
func BuildNotification(adminID uint, title, message string, ntype models.NotificationType, review *models.Review, now time.Time) models.Notification {
	n := models.Notification{
		AdminID:   adminID,
		Title:     title,
		Message:   message,
		Type:      ntype,
		CreatedAt: now,
		ExpiresAt: now.Add(models.NotificationTTL),
	}
	if review != nil {
		n.ReviewID = &review.ID
		if snapshot, err := json.Marshal(review); err == nil {
			n.ReviewData = string(snapshot)
		}
	}
	return n
}

// Create writes a notification and pushes it live
func (s *NotificationService) Create(adminID uint, title, message string, ntype models.NotificationType, review *models.Review) (*models.Notification, error) {
	n := BuildNotification(adminID, title, message, ntype, review, time.Now())
	if err := s.db.Create(&n).Error; err != nil {
		log.Printf("❌ Failed to create notification for admin %d: %v", adminID, err)
		return nil, err
	}
	s.Push(&n)
	return &n, nil
}

// Push delivers a notification over the hub to the target admin if connected
func (s *NotificationService) Push(n *models.Notification) {
	if s.hub == nil {
		return
	}
	s.hub.SendToAdmin(n.AdminID, &ws.Message{
		Type:      "notification",
		Timestamp: time.Now(),
		Data:      n,
	})
}

// ListForAdmin returns the admin's unexpired notifications, newest first.
// Expired rows are filtered opportunistically even before the sweep job
// removes them.
func (s *NotificationService) ListForAdmin(adminID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("admin_id = ? AND expires_at > ?", adminID, time.Now()).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// UnreadCount returns the number of unread, unexpired notifications
func (s *NotificationService) UnreadCount(adminID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("admin_id = ? AND read = ? AND expires_at > ?", adminID, false, time.Now()).
		Count(&count).Error
	return count, err
}

// DeleteExpired removes every notification past its expiry. Used by the
// expiry sweep job.
func (s *NotificationService) DeleteExpired(now time.Time) (int64, error) {
	result := s.db.Where("expires_at <= ?", now).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
