package controllers

import (
	"net/http"

	"deenconnect-api/models"
	"deenconnect-api/services"
	"deenconnect-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MessageController handles direct messages. Only friends may message each
// other; the friendship relation is the precondition, nothing else.
type MessageController struct {
	db            *gorm.DB
	friendService *services.FriendService
}

func NewMessageController(db *gorm.DB, friendService *services.FriendService) *MessageController {
	return &MessageController{
		db:            db,
		friendService: friendService,
	}
}

type SendMessageBody struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required,max=2000"`
}

func (mc *MessageController) SendMessage(c *gin.Context) {
	senderID := c.GetString("user_id")

	var body SendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if senderID == body.ReceiverID {
		utils.SendError(c, http.StatusBadRequest, "Cannot message yourself")
		return
	}

	areFriends, err := mc.friendService.AreFriends(senderID, body.ReceiverID)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to check friendship")
		return
	}
	if !areFriends {
		utils.SendError(c, http.StatusForbidden, "You can only message friends")
		return
	}

	message := models.Message{
		SenderID:   senderID,
		ReceiverID: body.ReceiverID,
		Content:    body.Content,
	}

	if err := mc.db.Create(&message).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to send message")
		return
	}

	utils.SendCreated(c, "Message sent successfully", message)
}

func (mc *MessageController) GetConversation(c *gin.Context) {
	userID := c.GetString("user_id")
	friendID := c.Param("friend_id")
	page, limit := pagination(c)

	var messages []models.Message
	err := mc.db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, friendID, friendID, userID).
		Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).
		Find(&messages).Error
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch conversation")
		return
	}

	// Fetching a conversation marks the incoming half as read
	if err := mc.db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", friendID, userID, false).
		Update("is_read", true).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to mark messages as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (mc *MessageController) GetUnreadCount(c *gin.Context) {
	userID := c.GetString("user_id")

	var count int64
	if err := mc.db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to count unread messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
