package controllers

import (
	"net/http"

	"deenconnect-api/services"
	"deenconnect-api/utils"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	notificationService *services.NotificationService
}

func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit := pagination(c)

	notifications, total, err := nc.notificationService.List(userID, page, limit)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	utils.SendPaginated(c, notifications, page, limit, total)
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	userID := c.GetString("user_id")
	notificationID := c.Param("id")

	if err := nc.notificationService.MarkRead(notificationID, userID); err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to mark notification as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	userID := c.GetString("user_id")

	count, err := nc.notificationService.UnreadCount(userID)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to count notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
