package routes

import (
	"github.com/MuhdAdnan/jj-halal-farms/config"
	"github.com/MuhdAdnan/jj-halal-farms/gateway/paystack"
	"github.com/MuhdAdnan/jj-halal-farms/notify"
	"github.com/MuhdAdnan/jj-halal-farms/session"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries the shared collaborators handlers are wired with.
type Deps struct {
	DB      *gorm.DB
	Store   *session.Store
	Gateway *paystack.Client
	Mailer  notify.Mailer
	Cfg     config.Config
}

// SetupRoutes is the single entry point that wires up Auth, Storefront,
// Payment, and Admin route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	SetupAuthRoutes(r, deps)

	SetupStorefrontRoutes(r, deps)

	SetupPaymentRoutes(r, deps)

	SetupAdminRoutes(r, deps)
}
