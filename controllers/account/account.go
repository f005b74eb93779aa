// Package accountControllers handles registration with email verification,
// login, and customer profile management.
package accountControllers

import (
	"errors"
	"net/http"

	"github.com/MuhdAdnan/jj-halal-farms/config"
	"github.com/MuhdAdnan/jj-halal-farms/middleware"
	"github.com/MuhdAdnan/jj-halal-farms/models"
	"github.com/MuhdAdnan/jj-halal-farms/notify"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required,min=8"`
	Password2 string `json:"password2" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/register — stores a pending user and emails a verification link.
func Register(db *gorm.DB, mailer notify.Mailer, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if req.Password != req.Password2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match."})
			return
		}

		var count int64
		db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
		if count == 0 {
			db.Model(&models.PendingUser{}).Where("email = ?", req.Email).Count(&count)
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists."})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}

		pending := models.PendingUser{
			FullName:          req.FullName,
			Email:             req.Email,
			Phone:             req.Phone,
			PasswordHash:      string(hash),
			VerificationToken: uuid.NewString(),
		}
		if err := db.Create(&pending).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}

		notify.SendVerificationEmail(mailer, pending.Email, pending.VerificationToken, cfg.BaseURL)

		c.JSON(http.StatusOK, gin.H{"message": "Check your email to verify your account."})
	}
}

// GET /auth/verify/:token — promotes the pending user to a real account.
func VerifyEmail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		var pending models.PendingUser
		if err := db.First(&pending, "verification_token = ?", token).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired verification link."})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			user := models.User{
				Email:         pending.Email,
				PasswordHash:  pending.PasswordHash,
				FullName:      pending.FullName,
				Phone:         pending.Phone,
				Role:          models.RoleCustomer,
				EmailVerified: true,
				Active:        true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return tx.Delete(&pending).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify account"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Your email is verified! You can now login."})
	}
}

// POST /auth/resend-verification
func ResendVerification(db *gorm.DB, mailer notify.Mailer, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var pending models.PendingUser
		if err := db.First(&pending, "email = ?", req.Email).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending account found with this email."})
			return
		}

		notify.SendVerificationEmail(mailer, pending.Email, pending.VerificationToken, cfg.BaseURL)
		c.JSON(http.StatusOK, gin.H{"message": "Verification email has been resent."})
	}
}

// POST /auth/login — returns a bearer token carrying the caller's role.
func Login(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, "email = ?", req.Email).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
			return
		}
		if !user.Active {
			c.JSON(http.StatusForbidden, gin.H{"error": "Your account has been deactivated."})
			return
		}

		token, err := middleware.IssueToken(jwtSecret, user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"id":        user.ID,
				"email":     user.Email,
				"full_name": user.FullName,
				"role":      user.Role,
			},
		})
	}
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// GET /user
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := middleware.CurrentPrincipal(c)

		var user models.User
		if err := db.First(&user, "id = ?", principal.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /user
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := middleware.CurrentPrincipal(c)

		var user models.User
		if err := db.First(&user, "id = ?", principal.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if req.FullName != nil {
			updates["full_name"] = *req.FullName
		}
		if req.Phone != nil {
			updates["phone"] = *req.Phone
		}
		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
				return
			}
		}
		c.JSON(http.StatusOK, user)
	}
}
