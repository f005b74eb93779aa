package accountControllers

import (
	"net/http"

	"github.com/MuhdAdnan/jj-halal-farms/middleware"
	"github.com/MuhdAdnan/jj-halal-farms/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /user/messages — the customer's inbox: staff messages, newest first.
// Opening the inbox marks everything as read.
func ListMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var unread int64
		if err := db.Model(&models.CustomerMessage{}).
			Where("recipient_id = ? AND is_read = ?", principal.UserID, false).
			Count(&unread).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
			return
		}

		if unread > 0 {
			if err := db.Model(&models.CustomerMessage{}).
				Where("recipient_id = ? AND is_read = ?", principal.UserID, false).
				Update("is_read", true).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
				return
			}
		}

		var messages []models.CustomerMessage
		if err := db.Where("recipient_id = ?", principal.UserID).
			Order("created_at DESC").
			Find(&messages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"messages": messages, "unread": unread})
	}
}
