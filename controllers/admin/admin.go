// Package adminControllers serves the staff panel: dashboard stats,
// customer management, and customer messaging.
package adminControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MuhdAdnan/jj-halal-farms/middleware"
	"github.com/MuhdAdnan/jj-halal-farms/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GET /admin/dashboard
func Dashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalProducts, totalOrders, pendingOrders, completedOrders int64
		db.Model(&models.Product{}).Count(&totalProducts)
		db.Model(&models.Order{}).Count(&totalOrders)
		db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pendingOrders)
		db.Model(&models.Order{}).Where("status = ?", models.OrderStatusCompleted).Count(&completedOrders)

		var recent []models.Order
		if err := db.Preload("User").Preload("Items").
			Order("created_at DESC").Limit(5).Find(&recent).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
			return
		}

		recentOrders := make([]gin.H, 0, len(recent))
		for _, order := range recent {
			var parts []string
			for _, item := range order.Items {
				parts = append(parts, fmt.Sprintf("%s (x%d)", item.ProductName, item.Quantity))
			}
			summary := "-"
			if len(parts) > 0 {
				summary = strings.Join(parts, ", ")
			}
			name := order.FullName
			if name == "" {
				name = order.User.Email
			}
			recentOrders = append(recentOrders, gin.H{
				"customer_name": name,
				"items":         summary,
				"total":         order.TotalAmount,
				"status":        order.Status,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"total_products":   totalProducts,
			"total_orders":     totalOrders,
			"pending_orders":   pendingOrders,
			"completed_orders": completedOrders,
			"recent_orders":    recentOrders,
		})
	}
}

// GET /admin/customers?q=&page= — customer accounts with order counts.
func ListCustomers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const pageSize = 10
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}

		q := db.Model(&models.User{}).Where("role = ?", models.RoleCustomer)
		if search := c.Query("q"); search != "" {
			pattern := "%" + search + "%"
			q = q.Where("email LIKE ? OR full_name LIKE ?", pattern, pattern)
		}

		var total int64
		q.Count(&total)

		var customers []models.User
		if err := q.Order("created_at DESC").
			Limit(pageSize).Offset((page - 1) * pageSize).
			Find(&customers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
			return
		}

		results := make([]gin.H, 0, len(customers))
		for _, customer := range customers {
			var orderCount int64
			db.Model(&models.Order{}).Where("user_id = ?", customer.ID).Count(&orderCount)
			results = append(results, gin.H{
				"id":           customer.ID,
				"email":        customer.Email,
				"full_name":    customer.FullName,
				"phone":        customer.Phone,
				"active":       customer.Active,
				"total_orders": orderCount,
				"created_at":   customer.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"customers": results,
			"page":      page,
			"total":     total,
		})
	}
}

// POST /admin/customers/:id/toggle — activate or deactivate an account.
func ToggleCustomerStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var customer models.User
		if err := db.First(&customer, "id = ? AND role = ?", c.Param("id"), models.RoleCustomer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer"})
			return
		}

		customer.Active = !customer.Active
		if err := db.Model(&customer).Update("active", customer.Active).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
			return
		}

		state := "deactivated"
		if customer.Active {
			state = "activated"
		}
		c.JSON(http.StatusOK, gin.H{"message": "Customer " + state + " successfully."})
	}
}

// GET /admin/customers/:id — profile, order history and spend summary.
func CustomerDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var customer models.User
		if err := db.First(&customer, "id = ? AND role = ?", c.Param("id"), models.RoleCustomer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer"})
			return
		}

		var orders []models.Order
		if err := db.Where("user_id = ?", customer.ID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		totalSpent := decimal.Zero
		for _, order := range orders {
			totalSpent = totalSpent.Add(order.TotalAmount)
		}

		c.JSON(http.StatusOK, gin.H{
			"customer":     customer,
			"orders":       orders,
			"total_orders": len(orders),
			"total_spent":  totalSpent,
		})
	}
}

type SendMessageRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

// POST /admin/customers/:id/message
func SendCustomerMessage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := middleware.CurrentPrincipal(c)

		var req SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message body cannot be empty."})
			return
		}

		var customer models.User
		if err := db.First(&customer, "id = ? AND role = ?", c.Param("id"), models.RoleCustomer).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}

		message := models.CustomerMessage{
			SenderID:    principal.UserID,
			RecipientID: customer.ID,
			Subject:     req.Subject,
			Body:        req.Body,
		}
		if err := db.Create(&message).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Message sent to customer."})
	}
}
