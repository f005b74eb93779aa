package routes

import (
	accountControllers "github.com/MuhdAdnan/jj-halal-farms/controllers/account"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all "/auth/*" endpoints. No middleware.
func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", accountControllers.Register(deps.DB, deps.Mailer, deps.Cfg))
		authGroup.GET("/verify/:token", accountControllers.VerifyEmail(deps.DB))
		authGroup.POST("/resend-verification", accountControllers.ResendVerification(deps.DB, deps.Mailer, deps.Cfg))
		authGroup.POST("/login", accountControllers.Login(deps.DB, deps.Cfg.JWTSecret))
	}
}
