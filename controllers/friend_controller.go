package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"deenconnect-api/services"
	"deenconnect-api/utils"

	"github.com/gin-gonic/gin"
)

type FriendController struct {
	friendService *services.FriendService
}

func NewFriendController(friendService *services.FriendService) *FriendController {
	return &FriendController{friendService: friendService}
}

type SendFriendRequestBody struct {
	SenderID   string `json:"senderId" binding:"required"`
	ReceiverID string `json:"receiverId" binding:"required"`
}

type RespondFriendRequestBody struct {
	RequestID uint  `json:"requestId" binding:"required"`
	Accept    *bool `json:"accept" binding:"required"`
}

func (fc *FriendController) SendFriendRequest(c *gin.Context) {
	var body SendFriendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	request, err := fc.friendService.SendRequest(body.SenderID, body.ReceiverID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfRequest):
			utils.SendError(c, http.StatusBadRequest, "Cannot send friend request to yourself")
		case errors.Is(err, services.ErrUserNotFound):
			utils.SendError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrAlreadyFriends):
			utils.SendError(c, http.StatusConflict, "Already friends with this user")
		case errors.Is(err, services.ErrRequestPending):
			utils.SendError(c, http.StatusConflict, "Friend request already pending")
		default:
			utils.SendError(c, http.StatusInternalServerError, "Failed to send friend request")
		}
		return
	}

	utils.SendCreated(c, "Friend request sent successfully", request)
}

func (fc *FriendController) GetPendingRequests(c *gin.Context) {
	userID := c.Param("user_id")
	page, limit := pagination(c)

	requests, err := fc.friendService.ListIncoming(userID, page, limit)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch friend requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (fc *FriendController) GetSentRequests(c *gin.Context) {
	userID := c.Param("user_id")
	page, limit := pagination(c)

	requests, err := fc.friendService.ListOutgoing(userID, page, limit)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch sent requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (fc *FriendController) RespondToRequest(c *gin.Context) {
	var body RespondFriendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	request, err := fc.friendService.Respond(body.RequestID, *body.Accept)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			utils.SendError(c, http.StatusNotFound, "Friend request not found")
		case errors.Is(err, services.ErrRequestResolved):
			utils.SendError(c, http.StatusConflict, "Friend request has already been resolved")
		default:
			utils.SendError(c, http.StatusInternalServerError, "Failed to respond to friend request")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": request.Status})
}

func (fc *FriendController) GetFriends(c *gin.Context) {
	userID := c.Param("user_id")

	friends, err := fc.friendService.ListFriends(userID)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch friends")
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

func (fc *FriendController) RemoveFriend(c *gin.Context) {
	userID := c.Param("user_id")
	friendID := c.Param("friend_id")

	if err := fc.friendService.RemoveFriend(userID, friendID); err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to remove friend")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit
}
