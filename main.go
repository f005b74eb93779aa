package main

import (
	"context"
	"log"
	"time"

	"github.com/MuhdAdnan/jj-halal-farms/config"
	"github.com/MuhdAdnan/jj-halal-farms/gateway/paystack"
	"github.com/MuhdAdnan/jj-halal-farms/models"
	"github.com/MuhdAdnan/jj-halal-farms/notify"
	"github.com/MuhdAdnan/jj-halal-farms/routes"
	"github.com/MuhdAdnan/jj-halal-farms/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("Starting JJ Halal Farms storefront...")

	// Load environment variables
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Init DB
	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.PendingUser{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.CustomerMessage{},
		&models.StaffProfile{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// Session store (cart)
	store := session.New(cfg.RedisAddr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("Redis unreachable: %v", err)
	}

	gateway := paystack.NewClient(cfg.PaystackSecretKey, cfg.PaystackBaseURL)
	mailer := &notify.SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.FromEmail,
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Product images
	r.Static("/uploads/products", cfg.UploadDir)

	routes.SetupRoutes(r, routes.Deps{
		DB:      db,
		Store:   store,
		Gateway: gateway,
		Mailer:  mailer,
		Cfg:     cfg,
	})

	log.Printf("Listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func initDatabase(cfg config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}
