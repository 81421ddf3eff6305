package userControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Order{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, password string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	email := "aisha@example.com"
	user := models.User{
		Email:          &email,
		HashedPassword: string(hashed),
		Role:           models.RoleCustomer,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func putJSON(t *testing.T, handler gin.HandlerFunc, userID uint, body gin.H) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", userID)
	handler(c)
	return w
}

func TestChangePassword(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "oldpassword")

	// An outstanding session whose refresh token must die with the
	// old password.
	rt := models.RefreshToken{
		UserID:    user.ID,
		Token:     "live-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&rt).Error)

	w := putJSON(t, ChangePassword(db), user.ID, gin.H{
		"current_password": "oldpassword",
		"new_password":     "brandnewpass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.HashedPassword), []byte("brandnewpass")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(updated.HashedPassword), []byte("oldpassword")))

	var token models.RefreshToken
	require.NoError(t, db.First(&token, "token = ?", "live-token").Error)
	assert.True(t, token.IsRevoked)
}

func TestChangePassword_WrongCurrentRejected(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "oldpassword")

	w := putJSON(t, ChangePassword(db), user.ID, gin.H{
		"current_password": "not-the-password",
		"new_password":     "brandnewpass",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var unchanged models.User
	require.NoError(t, db.First(&unchanged, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(unchanged.HashedPassword), []byte("oldpassword")))
}

func TestChangePassword_ShortNewRejected(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "oldpassword")

	w := putJSON(t, ChangePassword(db), user.ID, gin.H{
		"current_password": "oldpassword",
		"new_password":     "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUser_CannotDropLastIdentifier(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "oldpassword") // email only, no phone

	w := putJSON(t, UpdateUser(db), user.ID, gin.H{"email": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
