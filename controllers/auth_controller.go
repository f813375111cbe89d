// File: /controllers/auth_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"time"

	"deenconnect-api/models"
	"deenconnect-api/services"
	"deenconnect-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	db           *gorm.DB
	jwtSecret    string
	emailService *services.EmailService
}

func NewAuthController(db *gorm.DB, jwtSecret string, emailService *services.EmailService) *AuthController {
	return &AuthController{
		db:           db,
		jwtSecret:    jwtSecret,
		emailService: emailService,
	}
}

type RegisterRequest struct {
	Username    string  `json:"username" binding:"required"`
	Phone       string  `json:"phone" binding:"required"`
	Password    string  `json:"password" binding:"required,min=6"`
	DisplayName string  `json:"display_name" binding:"required"`
	Email       *string `json:"email"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"` // username or phone
	Password   string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if !utils.IsValidUsername(req.Username) {
		utils.SendValidationError(c, "Username may only contain lowercase letters, digits and underscores")
		return
	}
	if !utils.IsValidPhone(req.Phone) {
		utils.SendValidationError(c, "Invalid phone number")
		return
	}
	if !utils.IsValidPassword(req.Password) {
		utils.SendValidationError(c, "Password must mix at least three of: upper case, lower case, digits, symbols")
		return
	}
	if req.Email != nil && *req.Email != "" && !utils.IsValidEmail(*req.Email) {
		utils.SendValidationError(c, "Invalid email address")
		return
	}

	// Check if user already exists
	var existingUser models.User
	if err := ac.db.Where("phone = ?", req.Phone).First(&existingUser).Error; err == nil {
		utils.SendError(c, http.StatusConflict, "Phone number already registered")
		return
	}
	if err := ac.db.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		utils.SendError(c, http.StatusConflict, "Username already taken")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		ID:          uuid.New().String(),
		Username:    req.Username,
		Phone:       req.Phone,
		Email:       req.Email,
		Password:    string(hashedPassword),
		DisplayName: req.DisplayName,
	}

	if err := ac.db.Create(&user).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	go func() {
		if err := ac.emailService.SendWelcomeEmail(&user); err != nil {
			fmt.Printf("Failed to send welcome email: %v\n", err)
		}
	}()

	token, err := ac.generateJWT(user.ID, user.Username)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	user.Sanitize()
	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	var user models.User
	if err := ac.db.Where("username = ? OR phone = ?", req.Identifier, req.Identifier).First(&user).Error; err != nil {
		utils.SendError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.SendError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := ac.generateJWT(user.ID, user.Username)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	user.Sanitize()
	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

func (ac *AuthController) generateJWT(userID, username string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ac.jwtSecret))
}
