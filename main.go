package main

import (
	"context"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"

	"ticketmetal/config"
	"ticketmetal/handlers"
	_ "ticketmetal/migrations"
	"ticketmetal/monitoring"
	"ticketmetal/security"
	"ticketmetal/services"
	"ticketmetal/services/mpago"
	"ticketmetal/store"
	"ticketmetal/utils"
)

func main() {
	app := pocketbase.New()
	cfg := config.LoadConfig()

	redisClient := utils.NewRedisClient(cfg.RedisURL)

	media, err := services.NewMediaService(context.Background(), services.MediaConfig{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		UseSSL:    cfg.StorageUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	gateway := mpago.NewClient(&mpago.ClientConfig{
		BaseURL:     cfg.MercadoPagoBaseURL,
		AccessToken: cfg.MercadoPagoAccessToken,
	})

	// Initialize stores and services
	st := store.New(app)
	ticketService := services.NewTicketService(st.Events, st.Tickets)
	paymentService := services.NewPaymentService(gateway, st.Purchases, ticketService, st.Tickets, redisClient, cfg.PublicURL)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(st.Users)
	eventHandler := handlers.NewEventHandler(st.Events, st.External)
	ticketHandler := handlers.NewTicketHandler(ticketService, st.Tickets, st.Events, st.Users)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	mediaHandler := handlers.NewMediaHandler(media)

	limiter := security.NewRateLimiter(redisClient)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	if cfg.EnableMetrics {
		monitoring.Serve(cfg.MetricsPort)
	}

	// Register routes
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(monitoring.RequestMetrics())

		writeLimit := limiter.PerIP("write", 30, time.Minute)

		// User endpoints
		se.Router.POST("/api/users", userHandler.Create).BindFunc(writeLimit)
		se.Router.GET("/api/users/{id}", userHandler.Get)
		se.Router.GET("/api/users/by-email/{email}", userHandler.GetByEmail)
		se.Router.PUT("/api/users/{id}", userHandler.Update).BindFunc(writeLimit)
		se.Router.DELETE("/api/users/{id}", userHandler.Delete).BindFunc(writeLimit)

		// Event endpoints
		se.Router.POST("/api/events", eventHandler.Create).BindFunc(writeLimit)
		se.Router.GET("/api/events", eventHandler.List)
		se.Router.GET("/api/events/{id}", eventHandler.Get)
		se.Router.GET("/api/events/by-organizer/{id}", eventHandler.ByOrganizer)
		se.Router.PUT("/api/events/{id}", eventHandler.Update).BindFunc(writeLimit)
		se.Router.DELETE("/api/events/{id}", eventHandler.Delete).BindFunc(writeLimit)
		se.Router.GET("/api/events/{id}/stats", eventHandler.Stats)
		se.Router.GET("/api/events/{id}/report", eventHandler.Report)

		// External event aggregation
		se.Router.GET("/api/events/external", eventHandler.External)
		se.Router.GET("/api/events/external/featured", eventHandler.Featured)

		// Ticket endpoints
		se.Router.POST("/api/tickets", ticketHandler.Create).BindFunc(writeLimit)
		se.Router.GET("/api/tickets/{id}", ticketHandler.Get)
		se.Router.GET("/api/tickets/by-qr/{qr}", ticketHandler.GetByQR)
		se.Router.GET("/api/tickets/by-user/{id}", ticketHandler.ByUser)
		se.Router.GET("/api/tickets/by-event/{id}", ticketHandler.ByEvent)
		se.Router.PUT("/api/tickets/{id}", ticketHandler.Update).BindFunc(writeLimit)
		se.Router.DELETE("/api/tickets/{id}", ticketHandler.Delete).BindFunc(writeLimit)
		se.Router.GET("/api/tickets/{id}/document", ticketHandler.Document)

		// Payment endpoints
		se.Router.POST("/api/payments/preference", paymentHandler.CreatePreference).BindFunc(writeLimit)
		se.Router.POST("/api/payments/webhook", paymentHandler.Webhook)
		se.Router.GET("/api/payments/{id}/status", paymentHandler.Status)
		se.Router.POST("/api/payments/{id}/refund", paymentHandler.Refund).BindFunc(writeLimit)

		// Image endpoints
		se.Router.POST("/api/images", mediaHandler.Upload).BindFunc(writeLimit)
		se.Router.DELETE("/api/images", mediaHandler.Delete).BindFunc(writeLimit)
		se.Router.GET("/api/images", mediaHandler.List)

		// Health check
		se.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{
				"status":    "healthy",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		log.Println("Server routes registered")

		return se.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
