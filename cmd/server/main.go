package main

import (
	"os"
	"time"

	"gym-backoffice/internal/database"
	"gym-backoffice/internal/handlers"
	"gym-backoffice/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	database.Connect()
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)

	// Only open self-registration if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", handlers.Register)
		log.Warn().Msg("Registration route is OPEN. Disable this in production!")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// MEMBERS AND STAFF
		api.POST("/checkout", handlers.Checkout)
		api.POST("/vouchers/validate", handlers.ValidateVoucher)
		api.GET("/promos/active", handlers.GetActivePromos)
		api.GET("/transactions", handlers.ListTransactions)
		api.GET("/transactions/:id", handlers.GetTransaction)

		// STAFF ONLY - manual payment approval and reversal
		staff := api.Group("/")
		staff.Use(middleware.RequireRole("staff", "admin"))
		{
			staff.POST("/transactions/:id/approve", handlers.ApproveTransaction)
			staff.POST("/transactions/:id/reject", handlers.RejectTransaction)
			staff.POST("/transactions/:id/refund", handlers.RefundTransaction)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("Server starting")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
