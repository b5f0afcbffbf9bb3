package controllers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"nh360fastag/config"
	"nh360fastag/database"
	"nh360fastag/utils"
)

func TestLoginExpiryFollowsConfig(t *testing.T) {
	setupTestDB(t)

	saved := config.AppConfig.JWTExpiryHours
	config.AppConfig.JWTExpiryHours = 2
	defer func() { config.AppConfig.JWTExpiryHours = saved }()

	hash, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := database.User{
		Name:         "login-test",
		Email:        "login@test",
		Phone:        "9000000001",
		PasswordHash: hash,
		Role:         database.RoleAdmin,
		Status:       database.UserStatusActive,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	r := gin.New()
	r.POST("/api/auth/login", Login)

	w := doJSON(t, r, "POST", "/api/auth/login", map[string]interface{}{
		"email":    "login@test",
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	want := time.Now().Add(2 * time.Hour).Unix()
	if diff := resp.Expiry - want; diff < -60 || diff > 60 {
		t.Errorf("expiry = %d, want about %d (off by %ds)", resp.Expiry, want, diff)
	}

	claims, err := utils.ValidateJWT(resp.Token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Email != "login@test" {
		t.Errorf("token email = %q", claims.Email)
	}
}
