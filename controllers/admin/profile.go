package adminControllers

import (
	"net/http"

	"github.com/MuhdAdnan/jj-halal-farms/middleware"
	"github.com/MuhdAdnan/jj-halal-farms/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateStaffProfileRequest struct {
	BusinessName *string `json:"business_name"`
	Phone        *string `json:"phone"`
	Location     *string `json:"location"`
	Description  *string `json:"description"`
}

// GET /admin/profile — creates the profile with defaults on first access.
func GetStaffProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := middleware.CurrentPrincipal(c)

		var profile models.StaffProfile
		if err := db.Where("user_id = ?", principal.UserID).
			FirstOrCreate(&profile, models.StaffProfile{UserID: principal.UserID}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// PUT /admin/profile
func UpdateStaffProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := middleware.CurrentPrincipal(c)

		var profile models.StaffProfile
		if err := db.Where("user_id = ?", principal.UserID).
			FirstOrCreate(&profile, models.StaffProfile{UserID: principal.UserID}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}

		var req UpdateStaffProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if req.BusinessName != nil {
			updates["business_name"] = *req.BusinessName
		}
		if req.Phone != nil {
			updates["phone"] = *req.Phone
		}
		if req.Location != nil {
			updates["location"] = *req.Location
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if len(updates) > 0 {
			if err := db.Model(&profile).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully.", "profile": profile})
	}
}
