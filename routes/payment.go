package routes

import (
	paystackControllers "github.com/MuhdAdnan/jj-halal-farms/controllers/paystack"
	"github.com/MuhdAdnan/jj-halal-farms/middleware"
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes registers the two reconciliation entry points plus the
// redirect landing pages. The webhook authenticates by body signature, not
// by user session.
func SetupPaymentRoutes(r *gin.Engine, deps Deps) {
	payment := r.Group("/payment")
	{
		verified := payment.Group("/")
		verified.Use(middleware.Session(), middleware.Authenticate(deps.Cfg.JWTSecret), middleware.RequireCustomer())
		{
			verified.GET("/verify", paystackControllers.VerifyHandler(deps.DB, deps.Store, deps.Gateway))
			verified.GET("/success", paystackControllers.PaymentSuccessHandler())
			verified.GET("/failed", paystackControllers.PaymentFailedHandler())
		}

		payment.POST("/webhook",
			middleware.PaystackWebhookAuth(deps.Cfg.PaystackSecretKey),
			paystackControllers.WebhookHandler(deps.DB),
		)
	}
}
