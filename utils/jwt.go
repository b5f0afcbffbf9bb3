package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"nh360fastag/config"
)

// SessionClaims carries the authenticated user's identity inside the JWT
type SessionClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a token for the user. The lifetime comes from
// JWT_EXPIRY_HOURS; the expiry is returned so handlers can report it.
func GenerateSessionToken(userID uint, email, role string) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(config.GetJWTExpiration())

	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "nh360fastag",
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// ValidateJWT parses a token and extracts its claims
func ValidateJWT(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
