package routes

import (
	accountControllers "github.com/MuhdAdnan/jj-halal-farms/controllers/account"
	cartControllers "github.com/MuhdAdnan/jj-halal-farms/controllers/cart"
	orderControllers "github.com/MuhdAdnan/jj-halal-farms/controllers/order"
	productController "github.com/MuhdAdnan/jj-halal-farms/controllers/product"
	"github.com/MuhdAdnan/jj-halal-farms/middleware"
	"github.com/gin-gonic/gin"
)

// SetupStorefrontRoutes registers the public catalog and the
// customer-facing cart, checkout, profile and order-history endpoints.
func SetupStorefrontRoutes(r *gin.Engine, deps Deps) {
	// Public catalog
	r.GET("/products", productController.ListProducts(deps.DB))
	r.GET("/products/:id", productController.GetProduct(deps.DB))

	// Cart lives in the session, so browsing customers can fill it before
	// logging in. Staff accounts are kept out of the storefront.
	cart := r.Group("/cart")
	cart.Use(middleware.Session())
	{
		cart.GET("", cartControllers.GetCart(deps.DB, deps.Store))
		cart.POST("", cartControllers.AddToCart(deps.DB, deps.Store))
		cart.PUT("/:product_id", cartControllers.UpdateCartItem(deps.DB, deps.Store))
		cart.DELETE("/:product_id", cartControllers.RemoveFromCart(deps.Store))
	}

	// Authenticated customer endpoints
	user := r.Group("/")
	user.Use(middleware.Session(), middleware.Authenticate(deps.Cfg.JWTSecret), middleware.RequireCustomer())
	{
		user.GET("/user", accountControllers.GetProfile(deps.DB))
		user.PUT("/user", accountControllers.UpdateProfile(deps.DB))
		user.GET("/user/messages", accountControllers.ListMessages(deps.DB))
		user.POST("/checkout", orderControllers.CheckoutHandler(deps.DB, deps.Store, deps.Gateway, deps.Mailer, deps.Cfg))
		user.GET("/orders", orderControllers.OrderHistoryHandler(deps.DB))
	}
}
