package routes

import (
	adminControllers "github.com/MuhdAdnan/jj-halal-farms/controllers/admin"
	orderControllers "github.com/MuhdAdnan/jj-halal-farms/controllers/order"
	productController "github.com/MuhdAdnan/jj-halal-farms/controllers/product"
	"github.com/MuhdAdnan/jj-halal-farms/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires a staff token.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.Authenticate(deps.Cfg.JWTSecret), middleware.RequireStaff())
	{
		adminGroup.GET("/dashboard", adminControllers.Dashboard(deps.DB))

		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productController.CreateProduct(deps.DB, deps.Cfg.UploadDir))
			productAdmin.PUT("/:id", productController.UpdateProduct(deps.DB, deps.Cfg.UploadDir))
			productAdmin.DELETE("/:id", productController.DeleteProduct(deps.DB))
			productAdmin.GET("/export-excel", productController.ExportProductsToExcel(deps.DB))
		}

		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(deps.DB))
			orderAdmin.GET("/ws", orderControllers.OrderWebSocketHandler)
			orderAdmin.GET("/:orderID", orderControllers.GetOrderHandler(deps.DB))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(deps.DB))
		}

		customerAdmin := adminGroup.Group("/customers")
		{
			customerAdmin.GET("", adminControllers.ListCustomers(deps.DB))
			customerAdmin.GET("/:id", adminControllers.CustomerDetail(deps.DB))
			customerAdmin.POST("/:id/toggle", adminControllers.ToggleCustomerStatus(deps.DB))
			customerAdmin.POST("/:id/message", adminControllers.SendCustomerMessage(deps.DB))
		}

		adminGroup.GET("/profile", adminControllers.GetStaffProfile(deps.DB))
		adminGroup.PUT("/profile", adminControllers.UpdateStaffProfile(deps.DB))
	}
}
