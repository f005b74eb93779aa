package orderControllers

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/MuhdAdnan/jj-halal-farms/config"
	"github.com/MuhdAdnan/jj-halal-farms/gateway/paystack"
	"github.com/MuhdAdnan/jj-halal-farms/middleware"
	"github.com/MuhdAdnan/jj-halal-farms/models"
	"github.com/MuhdAdnan/jj-halal-farms/notify"
	"github.com/MuhdAdnan/jj-halal-farms/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type CheckoutRequest struct {
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	DeliveryMethod  string `json:"delivery_method" binding:"required,oneof=delivery pickup"`
	PaymentMethod   string `json:"payment_method" binding:"required,oneof=paystack pay_on_delivery"`
	DeliveryAddress string `json:"delivery_address"`
}

// generatePaymentReference returns a fresh opaque token correlating the
// order with its gateway transaction.
func generatePaymentReference() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// lockForUpdate row-locks on engines that support it. SQLite serializes
// writers at the database level and rejects the FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// BuildOrder turns the session cart into a persisted Order with snapshotted
// prices. Every product row is locked and its stock re-checked inside the
// transaction; if any line lost a race with another shopper, nothing is
// created and ErrInsufficientStock is returned. Totals are always computed
// from current catalog prices, never from client input.
func BuildOrder(db *gorm.DB, user models.User, cart map[uint]int, req CheckoutRequest) (*models.Order, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	productIDs := make([]uint, 0, len(cart))
	for pid := range cart {
		productIDs = append(productIDs, pid)
	}
	// Lock rows in a stable order to avoid deadlocks between concurrent checkouts.
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	fullName := req.FullName
	if fullName == "" {
		fullName = user.FullName
	}
	if fullName == "" {
		fullName = user.Email
	}
	phone := req.Phone
	if phone == "" {
		phone = user.Phone
	}

	status := models.OrderStatusPending
	if models.PaymentMethod(req.PaymentMethod) == models.PaymentMethodPayOnDelivery {
		status = models.OrderStatusAwaitingPayment
	}

	order := models.Order{
		UserID:           user.ID,
		FullName:         fullName,
		Phone:            phone,
		DeliveryMethod:   models.DeliveryMethod(req.DeliveryMethod),
		PaymentMethod:    models.PaymentMethod(req.PaymentMethod),
		DeliveryAddress:  req.DeliveryAddress,
		Status:           status,
		PaymentReference: generatePaymentReference(),
		CreatedAt:        time.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		var items []models.OrderItem

		for _, pid := range productIDs {
			qty := cart[pid]

			var product models.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", pid).Error; err != nil {
				return err
			}

			if product.Stock < qty {
				return fmt.Errorf("%w for product: %s", ErrInsufficientStock, product.Name)
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(qty))))
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    qty,
				Price:       product.Price,
			})
		}

		order.Items = items
		order.TotalAmount = total
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// clampCartToStock trims every line of the session cart down to currently
// available stock. Used after a checkout loses a stock race so the customer
// can review and resubmit.
func clampCartToStock(c *gin.Context, db *gorm.DB, store *session.Store, sid string, cart map[uint]int) {
	for pid, qty := range cart {
		var product models.Product
		if err := db.First(&product, "id = ?", pid).Error; err != nil {
			_ = store.Remove(c.Request.Context(), sid, pid)
			continue
		}
		if product.Stock <= 0 {
			_ = store.Remove(c.Request.Context(), sid, pid)
		} else if qty > product.Stock {
			_ = store.SetQuantity(c.Request.Context(), sid, pid, product.Stock)
		}
	}
}

// CheckoutHandler submits the cart as an order. Gateway payments get an
// authorization URL back; pay-on-delivery orders are placed immediately.
func CheckoutHandler(db *gorm.DB, store *session.Store, gw *paystack.Client, mailer notify.Mailer, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", principal.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		sid := middleware.SessionID(c)
		cart, err := store.Cart(c.Request.Context(), sid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		order, err := BuildOrder(db, user, cart, req)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
			case errors.Is(err, ErrInsufficientStock):
				clampCartToStock(c, db, store, sid, cart)
				c.JSON(http.StatusConflict, gin.H{
					"error":    err.Error(),
					"redirect": "/cart",
				})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			}
			return
		}

		// Best-effort; a failed email never rolls back the order.
		notify.SendOrderNotifications(mailer, *order, user.Email, cfg.AdminEmail)

		BroadcastNewOrder(*order)

		if order.PaymentMethod == models.PaymentMethodPayOnDelivery {
			if err := store.Clear(c.Request.Context(), sid); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"message":  "Order placed. Please pay on delivery or pickup.",
				"order_id": order.ID,
			})
			return
		}

		authURL, err := gw.Initialize(
			c.Request.Context(),
			user.Email,
			order.AmountMinorUnits(),
			order.PaymentReference,
			cfg.CallbackURL,
			order.ID,
			user.ID,
		)
		if err != nil {
			// The order stays pending; the customer keeps the cart and can retry.
			if errors.Is(err, paystack.ErrUnavailable) {
				c.JSON(http.StatusBadGateway, gin.H{"error": "Payment service is unreachable. Please try again."})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		_ = store.Clear(c.Request.Context(), sid)

		c.JSON(http.StatusOK, gin.H{
			"authorization_url": authURL,
			"reference":         order.PaymentReference,
			"order_id":          order.ID,
		})
	}
}
