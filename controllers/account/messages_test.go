package accountControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MuhdAdnan/jj-halal-farms/middleware"
	"github.com/MuhdAdnan/jj-halal-farms/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-jwt-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.CustomerMessage{}))
	return db
}

func inboxRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/user/messages", middleware.Authenticate(testJWTSecret), ListMessages(db))
	return r
}

func getInbox(t *testing.T, r *gin.Engine, token string) (int, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/user/messages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestListMessagesMarksInboxRead(t *testing.T) {
	db := setupTestDB(t)

	customer := models.User{Email: "amina@example.com", PasswordHash: "x", Role: models.RoleCustomer, Active: true}
	staff := models.User{Email: "owner@jjhalalfarms.com", PasswordHash: "x", Role: models.RoleStaff, Active: true}
	require.NoError(t, db.Create(&customer).Error)
	require.NoError(t, db.Create(&staff).Error)

	require.NoError(t, db.Create(&models.CustomerMessage{
		SenderID: staff.ID, RecipientID: customer.ID,
		Subject: "Your order is on its way", Body: "The driver left this morning.",
	}).Error)
	require.NoError(t, db.Create(&models.CustomerMessage{
		SenderID: staff.ID, RecipientID: customer.ID,
		Subject: "Fresh catfish in stock", Body: "Back in stock this week.",
	}).Error)

	token, err := middleware.IssueToken(testJWTSecret, customer)
	require.NoError(t, err)
	r := inboxRouter(db)

	code, body := getInbox(t, r, token)
	require.Equal(t, http.StatusOK, code)

	var messages []models.CustomerMessage
	require.NoError(t, json.Unmarshal(body["messages"], &messages))
	assert.Len(t, messages, 2)
	assert.Equal(t, "2", string(body["unread"]))

	// Opening the inbox marked everything read.
	var unread int64
	require.NoError(t, db.Model(&models.CustomerMessage{}).
		Where("recipient_id = ? AND is_read = ?", customer.ID, false).
		Count(&unread).Error)
	assert.Zero(t, unread)

	// A second visit finds nothing new.
	code, body = getInbox(t, r, token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0", string(body["unread"]))
}

func TestListMessagesOnlyShowsOwnInbox(t *testing.T) {
	db := setupTestDB(t)

	amina := models.User{Email: "amina@example.com", PasswordHash: "x", Role: models.RoleCustomer, Active: true}
	tunde := models.User{Email: "tunde@example.com", PasswordHash: "x", Role: models.RoleCustomer, Active: true}
	staff := models.User{Email: "owner@jjhalalfarms.com", PasswordHash: "x", Role: models.RoleStaff, Active: true}
	require.NoError(t, db.Create(&amina).Error)
	require.NoError(t, db.Create(&tunde).Error)
	require.NoError(t, db.Create(&staff).Error)

	require.NoError(t, db.Create(&models.CustomerMessage{
		SenderID: staff.ID, RecipientID: tunde.ID,
		Subject: "Pickup ready", Body: "Your order is ready for pickup.",
	}).Error)

	token, err := middleware.IssueToken(testJWTSecret, amina)
	require.NoError(t, err)

	code, body := getInbox(t, inboxRouter(db), token)
	require.Equal(t, http.StatusOK, code)

	var messages []models.CustomerMessage
	require.NoError(t, json.Unmarshal(body["messages"], &messages))
	assert.Empty(t, messages)

	// Someone else's inbox stays unread.
	var unread int64
	require.NoError(t, db.Model(&models.CustomerMessage{}).
		Where("recipient_id = ? AND is_read = ?", tunde.ID, false).
		Count(&unread).Error)
	assert.EqualValues(t, 1, unread)
}
