// Package paystackControllers holds the two thin entry points that feed
// gateway payment reports into the shared order reconciliation: the
// customer-facing verify redirect and the server-to-server webhook.
package paystackControllers

import (
	"errors"
	"net/http"

	orderControllers "github.com/MuhdAdnan/jj-halal-farms/controllers/order"
	"github.com/MuhdAdnan/jj-halal-farms/gateway/paystack"
	"github.com/MuhdAdnan/jj-halal-farms/middleware"
	"github.com/MuhdAdnan/jj-halal-farms/session"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func reportFromTransaction(txn *paystack.Transaction) orderControllers.GatewayReport {
	return orderControllers.GatewayReport{
		Reference: txn.Reference,
		Status:    txn.Status,
		Amount:    txn.Amount,
		OrderID:   int64(txn.Metadata.OrderID),
		UserID:    int64(txn.Metadata.UserID),
	}
}

// GET /payment/verify?reference=... — the customer lands here after paying.
// The lookup is restricted to the authenticated customer's own orders.
func VerifyHandler(db *gorm.DB, store *session.Store, gw *paystack.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		reference := c.Query("reference")
		if reference == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payment reference."})
			return
		}

		txn, err := gw.Verify(c.Request.Context(), reference)
		if err != nil {
			if errors.Is(err, paystack.ErrUnavailable) {
				c.JSON(http.StatusBadGateway, gin.H{"error": "Payment verification failed. Please try again."})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment verification failed."})
			return
		}

		report := reportFromTransaction(txn)
		report.Reference = reference

		order, outcome, err := orderControllers.ApplyGatewayReport(db, report, principal.UserID)
		if err != nil {
			switch {
			case errors.Is(err, orderControllers.ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found for this payment."})
			case errors.Is(err, orderControllers.ErrIntegrity):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Payment method mismatch."})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile payment."})
			}
			return
		}

		switch outcome {
		case orderControllers.OutcomeComplete, orderControllers.OutcomeAlreadyCompleted:
			// Best-effort UX cleanup; the webhook path never touches sessions.
			_ = store.Clear(c.Request.Context(), middleware.SessionID(c))
			c.JSON(http.StatusOK, gin.H{
				"status":   "completed",
				"message":  "Payment verified successfully.",
				"order_id": order.ID,
			})
		case orderControllers.OutcomeDeclined:
			c.JSON(http.StatusPaymentRequired, gin.H{"status": "failed", "error": "Payment was not successful."})
		case orderControllers.OutcomeAmountMismatch:
			c.JSON(http.StatusPaymentRequired, gin.H{"status": "failed", "error": "Payment amount mismatch."})
		case orderControllers.OutcomeMetadataMismatch:
			c.JSON(http.StatusPaymentRequired, gin.H{"status": "failed", "error": "Payment metadata mismatch."})
		case orderControllers.OutcomeStateConflict:
			c.JSON(http.StatusConflict, gin.H{"status": order.Status, "error": "Order is no longer payable. Please contact support."})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment could not be verified."})
		}
	}
}

type webhookPayload struct {
	Event string               `json:"event"`
	Data  paystack.Transaction `json:"data"`
}

// POST /payment/webhook — asynchronous gateway notification. The signature
// middleware has already authenticated the raw body. Unknown references get
// a 404 and integrity failures a 400 so the gateway retries; everything the
// shop has consumed is acknowledged with 200.
func WebhookHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload webhookPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
			return
		}

		if payload.Event != "charge.success" || payload.Data.Reference == "" {
			c.JSON(http.StatusOK, gin.H{"message": "ignored"})
			return
		}

		report := reportFromTransaction(&payload.Data)
		if report.Status == "" {
			// charge.success events imply a successful transaction.
			report.Status = "success"
		}

		_, outcome, err := orderControllers.ApplyGatewayReport(db, report, 0)
		if err != nil {
			switch {
			case errors.Is(err, orderControllers.ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown reference"})
			case errors.Is(err, orderControllers.ErrIntegrity):
				c.JSON(http.StatusBadRequest, gin.H{"error": "payment method mismatch"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reconcile payment"})
			}
			return
		}

		switch outcome {
		case orderControllers.OutcomeAmountMismatch, orderControllers.OutcomeMetadataMismatch:
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment report mismatch"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		}
	}
}

// GET /payment/success and /payment/failed — landing pages after the
// redirect flow.
func PaymentSuccessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "completed", "message": "Payment received. Thank you for your order!"})
	}
}

func PaymentFailedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "failed", "message": "Payment was not completed. Please try again."})
	}
}
