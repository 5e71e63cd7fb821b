package routes

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"agency-admin-server/database"
	"agency-admin-server/middleware"
	"agency-admin-server/models"
	ws "agency-admin-server/websocket"
)

var chatHub *ws.Hub

// RegisterChatRoutes registers the direct-message routes
func RegisterChatRoutes(router *gin.RouterGroup, hub *ws.Hub) {
	chatHub = hub
	router.GET("/conversations", listConversations)
	router.POST("/conversations", getOrCreateConversation)
	router.GET("/conversations/:id/messages", listMessages)
	router.POST("/messages", sendMessage)
	router.PUT("/messages/:id", editMessage)
	router.DELETE("/messages/:id", deleteMessage)
}

// RegisterWebSocketRoute registers the realtime endpoint, authenticated by
// a token query parameter because browsers cannot set websocket headers
func RegisterWebSocketRoute(router *gin.Engine, hub *ws.Hub) {
	router.GET("/ws", middleware.WebSocketAuthMiddleware(), func(c *gin.Context) {
		admin := middleware.CurrentAdmin(c)
		ws.ServeWebSocket(hub, c.Writer, c.Request, admin.ID, string(admin.Role))
	})
}

// listConversations returns the admin's threads, most recent activity first
func listConversations(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)

	var conversations []models.Conversation
	err := database.DB.Where("admin_a_id = ? OR admin_b_id = ?", actor.ID, actor.ID).
		Order("last_message_at DESC NULLS LAST").
		Find(&conversations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversations": conversations})
}

// ConversationRequest opens a thread with another admin
type ConversationRequest struct {
	AdminID uint `json:"admin_id" binding:"required"`
}

// getOrCreateConversation resolves the deterministic thread for an admin
// pair, creating it on first contact
func getOrCreateConversation(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)

	var req ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.AdminID == actor.ID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cannot open a conversation with yourself"})
		return
	}

	var peer models.Admin
	if err := database.DB.First(&peer, req.AdminID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Admin not found"})
		return
	}

	id := models.ConversationID(actor.ID, peer.ID)
	var conversation models.Conversation
	err := database.DB.First(&conversation, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		conversation = models.NewConversation(actor.ID, peer.ID)
		err = database.DB.Create(&conversation).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to open conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversation": conversation})
}

// listMessages returns a conversation's messages, oldest first, skipping
// ones the admin deleted locally
func listMessages(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	conversationID := c.Param("id")

	var conversation models.Conversation
	if err := database.DB.First(&conversation, "id = ?", conversationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Conversation not found"})
		return
	}
	if !conversation.Includes(actor.ID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not your conversation"})
		return
	}

	var all []models.Message
	err := database.DB.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&all).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load messages"})
		return
	}

	messages := make([]models.Message, 0, len(all))
	for i := range all {
		if !all[i].HiddenFor(actor.ID) {
			messages = append(messages, all[i])
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

// SendMessageRequest carries a direct message
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Text       string `json:"text" binding:"required,max=5000"`
}

// sendMessage persists a direct message and relays it live if the receiver
// is connected
func sendMessage(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.ReceiverID == actor.ID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cannot message yourself"})
		return
	}

	var peer models.Admin
	if err := database.DB.First(&peer, req.ReceiverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Receiver not found"})
		return
	}

	conversationID := models.ConversationID(actor.ID, peer.ID)
	now := time.Now()
	message := models.Message{
		ConversationID: conversationID,
		SenderID:       actor.ID,
		ReceiverID:     peer.ID,
		Text:           req.Text,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var conversation models.Conversation
		cerr := tx.First(&conversation, "id = ?", conversationID).Error
		if cerr == gorm.ErrRecordNotFound {
			conversation = models.NewConversation(actor.ID, peer.ID)
			if cerr = tx.Create(&conversation).Error; cerr != nil {
				return cerr
			}
		} else if cerr != nil {
			return cerr
		}

		if cerr := tx.Create(&message).Error; cerr != nil {
			return cerr
		}
		return tx.Model(&conversation).Updates(map[string]interface{}{
			"last_message_at":   now,
			"last_message_text": req.Text,
		}).Error
	})
	if err != nil {
		log.Printf("❌ Failed to send message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send message"})
		return
	}

	if chatHub != nil {
		chatHub.SendToAdmin(peer.ID, &ws.Message{
			Type:           "chat",
			ConversationID: conversationID,
			SenderID:       actor.ID,
			ReceiverID:     peer.ID,
			Content:        req.Text,
			Timestamp:      now,
			Data:           map[string]interface{}{"message_id": message.ID},
		})
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "chat_message": message})
}

// EditMessageRequest updates a message's text
type EditMessageRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

// editMessage lets the sender edit their own message; marks it edited
func editMessage(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid message id"})
		return
	}

	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var message models.Message
	if err := database.DB.First(&message, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Message not found"})
		return
	}
	if message.SenderID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You can only edit your own messages"})
		return
	}
	if message.DeletedBy != nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Message was deleted"})
		return
	}

	updates := map[string]interface{}{"text": req.Text, "edited": true}
	if err := database.DB.Model(&message).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to edit message"})
		return
	}

	if chatHub != nil {
		chatHub.SendToAdmin(message.ReceiverID, &ws.Message{
			Type:           "chat_edited",
			ConversationID: message.ConversationID,
			SenderID:       actor.ID,
			Content:        req.Text,
			Timestamp:      time.Now(),
			Data:           map[string]interface{}{"message_id": message.ID},
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "chat_message": message})
}

// deleteMessage deletes a message. ?scope=me hides it for the caller only;
// ?scope=everyone (sender only) tombstones it for both sides.
func deleteMessage(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid message id"})
		return
	}

	var message models.Message
	if err := database.DB.First(&message, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Message not found"})
		return
	}
	if message.SenderID != actor.ID && message.ReceiverID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not your message"})
		return
	}

	scope := c.DefaultQuery("scope", "me")
	switch scope {
	case "me":
		message.HideFor(actor.ID)
		if err := database.DB.Model(&message).Update("deleted_for", message.DeletedFor).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete message"})
			return
		}
	case "everyone":
		if message.SenderID != actor.ID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only the sender can delete for everyone"})
			return
		}
		now := time.Now()
		updates := map[string]interface{}{
			"text":       "",
			"deleted_by": actor.ID,
			"deleted_at": now,
		}
		if err := database.DB.Model(&message).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete message"})
			return
		}
		if chatHub != nil {
			chatHub.SendToAdmin(message.ReceiverID, &ws.Message{
				Type:           "chat_deleted",
				ConversationID: message.ConversationID,
				SenderID:       actor.ID,
				Timestamp:      now,
				Data:           map[string]interface{}{"message_id": message.ID},
			})
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "scope must be me or everyone"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message deleted"})
}
