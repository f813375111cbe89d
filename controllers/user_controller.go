package controllers

import (
	"net/http"

	"deenconnect-api/models"
	"deenconnect-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Avatar      *string `json:"avatar"`
	Email       *string `json:"email"`
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "User not found")
		return
	}

	user.Sanitize()
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil && *req.DisplayName != "" {
		updates["display_name"] = *req.DisplayName
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Email != nil {
		if *req.Email != "" && !utils.IsValidEmail(*req.Email) {
			utils.SendValidationError(c, "Invalid email address")
			return
		}
		updates["email"] = *req.Email
	}

	if len(updates) == 0 {
		utils.SendValidationError(c, "Nothing to update")
		return
	}

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "User not found")
		return
	}

	if err := uc.db.Model(&user).Updates(updates).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	user.Sanitize()
	utils.SendSuccess(c, "Profile updated successfully", user)
}

func (uc *UserController) GetUser(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "User not found")
		return
	}

	user.Sanitize()
	c.JSON(http.StatusOK, gin.H{"user": user})
}
