package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"agency-admin-server/models"
	ws "agency-admin-server/websocket"
)

// BulkDeleteBatchSize is the per-batch write limit of the store
const BulkDeleteBatchSize = 500

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrAssigneeNotFound    = errors.New("assignee not found")
	ErrAssigneeNotApproved = errors.New("assignee is not an approved admin")
	ErrAssignSuperAdmin    = errors.New("regular admins cannot assign a review to a superAdmin")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrInvalidStatus       = errors.New("invalid client status")
)

// ReviewWorkflowService implements the assignment/priority/status workflow.
// Each mutation is a single unconditional write (last-write-wins, no version
// check); side effects are recorded as notification rows and outbox intents
// in the same transaction, so a failed email never rolls back a committed
// assignment.
type ReviewWorkflowService struct {
	db  *gorm.DB
	hub *ws.Hub
}

// NewReviewWorkflowService creates the workflow service. The hub may be nil.
func NewReviewWorkflowService(db *gorm.DB, hub *ws.Hub) *ReviewWorkflowService {
	return &ReviewWorkflowService{db: db, hub: hub}
}

// Assign binds a review to an admin, or unbinds it when targetID is nil.
// Assigning to somebody other than the actor writes an assignment
// notification and an assignment-email intent; unassignment writes neither.
func (s *ReviewWorkflowService) Assign(reviewID uint, targetID *uint, targetName string, actor models.Admin) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		return nil, ErrReviewNotFound
	}

	var target models.Admin
	if targetID != nil {
		if err := s.db.First(&target, *targetID).Error; err != nil {
			return nil, ErrAssigneeNotFound
		}
		// Policy check lives server-side, not in the UI
		if !actor.IsSuperAdmin() && target.IsSuperAdmin() {
			return nil, ErrAssignSuperAdmin
		}
		if !target.IsApproved() {
			return nil, ErrAssigneeNotApproved
		}
	}

	now := time.Now()
	var notification *models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"assigned_to":      targetID,
			"assigned_to_name": targetName,
			"assigned_by":      actor.ID,
			"assigned_at":      now,
		}
		if targetID == nil {
			updates["assigned_to_name"] = ""
			updates["assigned_by"] = nil
			updates["assigned_at"] = nil
		}
		if err := tx.Model(&models.Review{}).Where("id = ?", reviewID).Updates(updates).Error; err != nil {
			return err
		}

		if targetID != nil && *targetID != actor.ID {
			n := BuildNotification(
				*targetID,
				"New review assigned to you",
				fmt.Sprintf("%s assigned you the review for %s", actor.Username, review.FullName),
				models.NotificationAssignment,
				&review,
				now,
			)
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
			notification = &n

			if _, err := EnqueueOutbox(tx, models.OutboxAssignmentEmail, AssignmentEmailPayload{
				To:             target.Email,
				AdminName:      target.Username,
				ReviewID:       review.ID,
				ClientName:     review.FullName,
				AssignedByName: actor.Username,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.pushLive(notification)

	review.AssignedTo = targetID
	review.AssignedToName = targetName
	if targetID == nil {
		review.AssignedToName = ""
		review.AssignedBy = nil
		review.AssignedAt = nil
	} else {
		actorID := actor.ID
		review.AssignedBy = &actorID
		review.AssignedAt = &now
	}
	log.Printf("✅ Review %d assignment updated by admin %d", reviewID, actor.ID)
	return &review, nil
}

// enteredHighTier reports whether a priority change newly crosses into the
// {high, highest} tier. A move within the tier (high→highest) does not
// count, which keeps a second notification from firing.
func enteredHighTier(old, new models.ReviewPriority) bool {
	return new.IsHighTier() && !old.IsHighTier()
}

// UpdatePriority overwrites the priority and stamps who/when changed it.
// Newly entering the high tier while assigned to somebody else fires exactly
// one high-priority notification.
func (s *ReviewWorkflowService) UpdatePriority(reviewID uint, newPriority models.ReviewPriority, actor models.Admin) (*models.Review, error) {
	if !models.IsValidPriority(newPriority) {
		return nil, ErrInvalidPriority
	}

	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		return nil, ErrReviewNotFound
	}

	notify := enteredHighTier(review.Priority, newPriority) &&
		review.AssignedTo != nil && *review.AssignedTo != actor.ID

	now := time.Now()
	var notification *models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"priority":            newPriority,
			"priority_changed_by": actor.ID,
			"priority_changed_at": now,
		}
		if err := tx.Model(&models.Review{}).Where("id = ?", reviewID).Updates(updates).Error; err != nil {
			return err
		}

		if notify {
			n := BuildNotification(
				*review.AssignedTo,
				"Review escalated",
				fmt.Sprintf("%s raised the priority of %s's review to %s", actor.Username, review.FullName, newPriority),
				models.NotificationHighPriority,
				&review,
				now,
			)
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
			notification = &n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.pushLive(notification)

	review.Priority = newPriority
	actorID := actor.ID
	review.PriorityChangedBy = &actorID
	review.PriorityChangedAt = &now
	return &review, nil
}

// UpdateClientStatus overwrites the client status. Pending→In Progress
// stamps inProgressStartedAt; leaving In Progress clears it. The assignee is
// notified when somebody else moves the status.
func (s *ReviewWorkflowService) UpdateClientStatus(reviewID uint, newStatus models.ClientStatus, actor models.Admin) (*models.Review, error) {
	if !models.IsValidClientStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		return nil, ErrReviewNotFound
	}

	notify := review.AssignedTo != nil && *review.AssignedTo != actor.ID &&
		newStatus != review.ClientStatus

	now := time.Now()
	var notification *models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"client_status":     newStatus,
			"status_changed_by": actor.ID,
			"status_changed_at": now,
		}
		if newStatus == models.ClientStatusInProgress && review.ClientStatus == models.ClientStatusPending {
			updates["in_progress_started_at"] = now
		} else if review.ClientStatus == models.ClientStatusInProgress && newStatus != models.ClientStatusInProgress {
			updates["in_progress_started_at"] = nil
		}
		if err := tx.Model(&models.Review{}).Where("id = ?", reviewID).Updates(updates).Error; err != nil {
			return err
		}

		if notify {
			n := BuildNotification(
				*review.AssignedTo,
				"Review status changed",
				fmt.Sprintf("%s moved %s's review to %s", actor.Username, review.FullName, newStatus),
				models.NotificationStatusChange,
				&review,
				now,
			)
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
			notification = &n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.pushLive(notification)

	review.ClientStatus = newStatus
	actorID := actor.ID
	review.StatusChangedBy = &actorID
	review.StatusChangedAt = &now
	return &review, nil
}

// Delete removes one review and its comments
func (s *ReviewWorkflowService) Delete(reviewID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Review{}, reviewID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReviewNotFound
		}
		return nil
	})
}

// BulkDelete removes reviews in sequential batches of BulkDeleteBatchSize.
// Earlier batches stay committed when a later one fails; the count of
// completed batches is returned either way.
func (s *ReviewWorkflowService) BulkDelete(ids []uint) (int, error) {
	batches := chunkIDs(ids, BulkDeleteBatchSize)
	completed := 0
	for _, batch := range batches {
		if err := s.db.Where("id IN ?", batch).Delete(&models.Review{}).Error; err != nil {
			return completed, err
		}
		completed++
	}
	return completed, nil
}

// chunkIDs splits ids into ceil(len/size) batches preserving order
func chunkIDs(ids []uint, size int) [][]uint {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	var chunks [][]uint
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

func (s *ReviewWorkflowService) pushLive(n *models.Notification) {
	if n == nil || s.hub == nil {
		return
	}
	s.hub.SendToAdmin(n.AdminID, &ws.Message{
		Type:      "notification",
		Timestamp: time.Now(),
		Data:      n,
	})
}
