package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"deenconnect-api/models"
	"deenconnect-api/services"
	"deenconnect-api/utils"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	challengeService *services.ChallengeService
}

func NewChallengeController(challengeService *services.ChallengeService) *ChallengeController {
	return &ChallengeController{challengeService: challengeService}
}

type CreateChallengeBody struct {
	CreatorID   string    `json:"creatorId" binding:"required"`
	OpponentID  string    `json:"opponentId" binding:"required"`
	Type        string    `json:"type" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description *string   `json:"description"`
	TargetValue int       `json:"targetValue" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
}

type RespondChallengeBody struct {
	ChallengeID uint  `json:"challengeId" binding:"required"`
	Accept      *bool `json:"accept" binding:"required"`
}

type UpdateProgressBody struct {
	ChallengeID   uint   `json:"challengeId" binding:"required"`
	ParticipantID string `json:"participantId" binding:"required"`
	Progress      *int   `json:"progress" binding:"required"`
}

type IncrementProgressBody struct {
	ChallengeID   uint   `json:"challengeId" binding:"required"`
	ParticipantID string `json:"participantId" binding:"required"`
	Delta         int    `json:"delta" binding:"required"`
}

func (cc *ChallengeController) CreateChallenge(c *gin.Context) {
	var body CreateChallengeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	challenge, err := cc.challengeService.Create(services.CreateChallengeInput{
		CreatorID:   body.CreatorID,
		OpponentID:  body.OpponentID,
		Type:        models.ChallengeType(body.Type),
		Title:       body.Title,
		Description: body.Description,
		TargetValue: body.TargetValue,
		EndDate:     body.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfChallenge):
			utils.SendError(c, http.StatusBadRequest, "Cannot challenge yourself")
		case errors.Is(err, services.ErrInvalidChallengeType):
			utils.SendError(c, http.StatusBadRequest, "Unknown challenge type")
		case errors.Is(err, services.ErrInvalidTarget):
			utils.SendError(c, http.StatusBadRequest, "Target value must be positive")
		case errors.Is(err, services.ErrInvalidEndDate):
			utils.SendError(c, http.StatusBadRequest, "End date must be in the future")
		case errors.Is(err, services.ErrUserNotFound):
			utils.SendError(c, http.StatusNotFound, "User not found")
		default:
			utils.SendError(c, http.StatusInternalServerError, "Failed to create challenge")
		}
		return
	}

	utils.SendCreated(c, "Challenge created successfully", challenge)
}

func (cc *ChallengeController) GetChallenges(c *gin.Context) {
	userID := c.Param("user_id")
	page, limit := pagination(c)

	challenges, err := cc.challengeService.ListForUser(userID, page, limit)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch challenges")
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

func (cc *ChallengeController) GetChallenge(c *gin.Context) {
	challengeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid challenge ID")
		return
	}

	challenge, err := cc.challengeService.Get(uint(challengeID))
	if err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			utils.SendError(c, http.StatusNotFound, "Challenge not found")
			return
		}
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch challenge")
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenge": challenge})
}

func (cc *ChallengeController) RespondToChallenge(c *gin.Context) {
	var body RespondChallengeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if err := cc.challengeService.Respond(body.ChallengeID, *body.Accept); err != nil {
		switch {
		case errors.Is(err, services.ErrChallengeNotFound):
			utils.SendError(c, http.StatusNotFound, "Challenge not found")
		case errors.Is(err, services.ErrChallengeResolved):
			utils.SendError(c, http.StatusConflict, "Challenge has already been responded to")
		default:
			utils.SendError(c, http.StatusInternalServerError, "Failed to respond to challenge")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (cc *ChallengeController) UpdateProgress(c *gin.Context) {
	var body UpdateProgressBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	challenge, err := cc.challengeService.UpdateProgress(body.ChallengeID, body.ParticipantID, *body.Progress)
	if err != nil {
		cc.sendProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "challenge": challenge})
}

func (cc *ChallengeController) IncrementProgress(c *gin.Context) {
	var body IncrementProgressBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	challenge, err := cc.challengeService.IncrementProgress(body.ChallengeID, body.ParticipantID, body.Delta)
	if err != nil {
		cc.sendProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "challenge": challenge})
}

func (cc *ChallengeController) sendProgressError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNegativeProgress):
		utils.SendError(c, http.StatusBadRequest, "Progress cannot be negative")
	case errors.Is(err, services.ErrChallengeNotFound):
		utils.SendError(c, http.StatusNotFound, "Challenge not found")
	case errors.Is(err, services.ErrNotParticipant):
		utils.SendError(c, http.StatusForbidden, "User is not a participant of this challenge")
	case errors.Is(err, services.ErrChallengeNotAccepted):
		utils.SendError(c, http.StatusConflict, "Challenge is not in the accepted state")
	default:
		utils.SendError(c, http.StatusInternalServerError, "Failed to update progress")
	}
}
