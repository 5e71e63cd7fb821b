package models

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Conversation is a direct-message thread between exactly two admins.
// Its id is deterministic: the sorted admin-id pair, so both sides always
// resolve the same thread.
type Conversation struct {
	ID              string     `json:"id" gorm:"primaryKey;size:50"`
	AdminAID        uint       `json:"admin_a_id" gorm:"not null;index"`
	AdminBID        uint       `json:"admin_b_id" gorm:"not null;index"`
	LastMessageAt   *time.Time `json:"last_message_at"`
	LastMessageText string     `json:"last_message_text" gorm:"size:500"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// ConversationID builds the deterministic pair id for two admins
func ConversationID(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// NewConversation creates the conversation record for an admin pair
func NewConversation(a, b uint) Conversation {
	if a > b {
		a, b = b, a
	}
	return Conversation{
		ID:       ConversationID(a, b),
		AdminAID: a,
		AdminBID: b,
	}
}

// Includes reports whether the admin participates in the conversation
func (c *Conversation) Includes(adminID uint) bool {
	return c.AdminAID == adminID || c.AdminBID == adminID
}

// Peer returns the other participant of the conversation
func (c *Conversation) Peer(adminID uint) uint {
	if c.AdminAID == adminID {
		return c.AdminBID
	}
	return c.AdminAID
}

// Message is a direct message between two admins. DeletedFor holds the ids
// of admins that locally hid the message; DeletedBy/DeletedAt record a
// delete-for-everyone.
type Message struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	ConversationID string        `json:"conversation_id" gorm:"size:50;not null;index"`
	SenderID       uint          `json:"sender_id" gorm:"not null"`
	ReceiverID     uint          `json:"receiver_id" gorm:"not null"`
	Text           string        `json:"text" gorm:"type:text"`
	Edited         bool          `json:"edited" gorm:"default:false"`
	DeletedFor     pq.Int64Array `json:"deleted_for" gorm:"type:integer[]"`
	DeletedBy      *uint         `json:"deleted_by"`
	DeletedAt      *time.Time    `json:"deleted_at"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// TableName specifies the table name for the Conversation model
func (Conversation) TableName() string {
	return "conversations"
}

// HiddenFor reports whether the admin locally deleted the message
func (m *Message) HiddenFor(adminID uint) bool {
	for _, id := range m.DeletedFor {
		if uint(id) == adminID {
			return true
		}
	}
	return false
}

// HideFor adds the admin to the local-delete set (idempotent)
func (m *Message) HideFor(adminID uint) {
	if m.HiddenFor(adminID) {
		return
	}
	m.DeletedFor = append(m.DeletedFor, int64(adminID))
}
