package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nh360fastag/database"
	"nh360fastag/utils"
)

// LoginRequest contains the credentials for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterRequest contains the data for user registration
type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required"`
	Pincode      string `json:"pincode" binding:"required"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"required,oneof=admin asm team-lead shop agent toll-agent executive employee customer"`
	Area         string `json:"area"`
	ParentUserID *uint  `json:"parent_user_id"`
	Address      string `json:"address"`
}

// LoginResponse is the structure returned after login
type LoginResponse struct {
	Token  string        `json:"token"`
	User   database.User `json:"user"`
	Expiry int64         `json:"expiry"`
}

// Login handles user authentication and returns a JWT token
func Login(c *gin.Context) {
	var loginRequest LoginRequest

	if err := c.ShouldBindJSON(&loginRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	// Find user by email
	var user database.User
	result := database.DB.Where("email = ?", loginRequest.Email).First(&user)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Printf("Database error: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if user.Status == database.UserStatusInactive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		return
	}

	// Verify password
	if !utils.CheckPasswordHash(loginRequest.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, expirationTime, err := utils.GenerateSessionToken(user.ID, user.Email, user.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}

	// Remove sensitive information from response
	user.PasswordHash = ""

	c.JSON(http.StatusOK, LoginResponse{
		Token:  token,
		User:   user,
		Expiry: expirationTime.Unix(),
	})
}

// Register handles user registration
func Register(c *gin.Context) {
	var registerRequest RegisterRequest

	if err := c.ShouldBindJSON(&registerRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	// Area is mandatory for area sales managers
	if registerRequest.Role == database.RoleASM && registerRequest.Area == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Area is required for ASM registration"})
		return
	}

	// Check if email or phone already exists
	var count int64
	database.DB.Model(&database.User{}).
		Where("email = ? OR phone = ?", registerRequest.Email, registerRequest.Phone).
		Count(&count)

	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email or phone already registered"})
		return
	}

	// A parent, if given, must exist
	if registerRequest.ParentUserID != nil {
		var parent database.User
		if err := database.DB.First(&parent, *registerRequest.ParentUserID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent user not found"})
			return
		}
	}

	// Hash password
	passwordHash, err := utils.HashPassword(registerRequest.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing registration"})
		return
	}

	// Create new user
	user := database.User{
		Name:         registerRequest.Name,
		Email:        registerRequest.Email,
		Phone:        registerRequest.Phone,
		Pincode:      registerRequest.Pincode,
		PasswordHash: passwordHash,
		Role:         registerRequest.Role,
		Status:       database.UserStatusActive,
		Area:         registerRequest.Area,
		ParentUserID: registerRequest.ParentUserID,
		Address:      registerRequest.Address,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	user.PasswordHash = ""
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "user": user})
}

// RefreshToken issues a fresh token for the authenticated user
func RefreshToken(c *gin.Context) {
	userID := c.GetUint("userID")

	var user database.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	token, expirationTime, err := utils.GenerateSessionToken(user.ID, user.Email, user.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expiry": expirationTime.Unix()})
}

// GetUserProfile returns the authenticated user's profile
func GetUserProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	var user database.User
	if err := database.DB.Preload("Parent").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.PasswordHash = ""
	if user.Parent != nil {
		user.Parent.PasswordHash = ""
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfileRequest contains the mutable profile fields
type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Pincode string `json:"pincode"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
}

// UpdateUserProfile updates the authenticated user's profile
func UpdateUserProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var user database.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Pincode != "" {
		updates["pincode"] = req.Pincode
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.City != "" {
		updates["city"] = req.City
	}
	if req.State != "" {
		updates["state"] = req.State
	}

	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Error updating profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile"})
		return
	}

	user.PasswordHash = ""
	c.JSON(http.StatusOK, user)
}

// ChangePasswordRequest carries the old and new password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword updates the authenticated user's password
func ChangePassword(c *gin.Context) {
	userID := c.GetUint("userID")

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var user database.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error changing password"})
		return
	}

	if err := database.DB.Model(&user).Update("password_hash", hash).Error; err != nil {
		log.Printf("Error changing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error changing password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
