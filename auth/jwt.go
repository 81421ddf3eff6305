// Package auth implements password-based accounts: registration and
// login with an email or phone identifier, short-lived access JWTs and
// rotated refresh tokens.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/cart"
	"github.com/burhanistore/storefront-api/models"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

type registerInput struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

type loginInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	// SessionID folds the anonymous session cart into the user cart.
	SessionID string `json:"session_id"`
}

// RegisterHandler creates a customer account keyed by email or phone.
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input registerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))
		phone := strings.TrimSpace(input.Phone)
		if email == "" && phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email or phone is required"})
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
			return
		}

		user := models.User{
			HashedPassword: string(hashed),
			FullName:       strings.TrimSpace(input.FullName),
			Role:           models.RoleCustomer,
			IsActive:       true,
		}
		if email != "" {
			user.Email = &email
		}
		if phone != "" {
			user.Phone = &phone
		}

		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "An account with this email or phone already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}

		access, refresh, err := issueTokenPair(db, &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"user":          user,
			"access_token":  access,
			"refresh_token": refresh,
		})
	}
}

// LoginHandler authenticates by email or phone and merges any anonymous
// session cart into the user cart.
func LoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input loginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		identifier := strings.TrimSpace(input.Identifier)
		var user models.User
		err := db.Where("email = ? OR phone = ?", strings.ToLower(identifier), identifier).
			First(&user).Error
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		now := time.Now()
		db.Model(&user).Update("last_login", now)

		mergeStatus := "no-session-cart"
		if input.SessionID != "" {
			mergeStatus = mergeSessionCart(db, input.SessionID, user.ID)
		}

		access, refresh, err := issueTokenPair(db, &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user":          user,
			"merge_status":  mergeStatus,
			"access_token":  access,
			"refresh_token": refresh,
		})
	}
}

// RefreshHandler rotates a refresh token: the presented token is revoked
// and a fresh pair is issued. A revoked or expired token is rejected.
func RefreshHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var rt models.RefreshToken
		err := db.Where("token = ?", input.RefreshToken).First(&rt).Error
		if err != nil || rt.IsRevoked || time.Now().After(rt.ExpiresAt) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", rt.UserID).Error; err != nil || !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account unavailable"})
			return
		}

		var access, refresh string
		err = db.Transaction(func(tx *gorm.DB) error {
			now := time.Now()
			if err := tx.Model(&rt).Updates(map[string]interface{}{
				"is_revoked": true,
				"revoked_at": now,
			}).Error; err != nil {
				return err
			}
			var issueErr error
			access, refresh, issueErr = issueTokenPair(tx, &user)
			return issueErr
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate tokens"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token":  access,
			"refresh_token": refresh,
		})
	}
}

// LogoutHandler revokes a refresh token. Access tokens simply expire.
func LogoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		db.Model(&models.RefreshToken{}).
			Where("token = ? AND is_revoked = ?", input.RefreshToken, false).
			Updates(map[string]interface{}{"is_revoked": true, "revoked_at": now})

		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func issueTokenPair(db *gorm.DB, user *models.User) (access, refresh string, err error) {
	access, err = issueJWT(user)
	if err != nil {
		return "", "", err
	}

	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	refresh = hex.EncodeToString(buf)

	rt := models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err = db.Create(&rt).Error; err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func issueJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// mergeSessionCart folds the anonymous session snapshot into the user
// snapshot and clears the session one. Merge failure never blocks login.
func mergeSessionCart(db *gorm.DB, sessionID string, userID uint) string {
	sessionStore := cart.NewGormStore(db, "session:"+sessionID)
	items, err := sessionStore.Load()
	if err != nil {
		return "merge-failed"
	}
	if len(items) == 0 {
		return "session-cart-empty"
	}

	userLedger := cart.NewLedger(cart.NewGormStore(db, fmt.Sprintf("user:%d", userID)))
	userLedger.Absorb(items)
	if err := sessionStore.Clear(); err != nil {
		return "merged-session-not-cleared"
	}
	return "merged"
}
