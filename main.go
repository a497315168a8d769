// File: courtbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"courtbook/config"
	"courtbook/database"
	bookingRepo "courtbook/database/repository/booking"
	courtRepo "courtbook/database/repository/court"
	"courtbook/handlers"
	"courtbook/models"
	"courtbook/routes"
	"courtbook/services/booking"
	"courtbook/services/court"
	"courtbook/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(routes.CORSMiddleware())

	// repositories.
	courts := courtRepo.NewMongoCourtRepo()
	bookings := bookingRepo.NewMongoBookingRepo()
	if err := courts.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure court indexes: %v", err)
	}
	if err := bookings.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}

	// services.
	engine := &booking.DefaultBookingEngine{
		CourtRepo:   courts,
		BookingRepo: bookings,
		Cache:       utils.GetCacheClient(),
		CacheTTL:    time.Duration(config.AppConfig.AvailabilityCacheTTL) * time.Second,
	}
	engine.Subscribe(func(b models.Booking) {
		logger.Info("booking confirmed",
			zap.String("bookingID", b.ID),
			zap.String("courtID", b.CourtID),
			zap.String("userID", b.UserID),
			zap.String("date", b.Date),
			zap.Float64("totalPrice", b.TotalPrice))
	})

	courtService := &court.DefaultCourtService{
		Repo:        courts,
		BookingRepo: bookings,
	}

	bookingHandler := handlers.NewBookingHandler(engine, logger)
	courtHandler := handlers.NewCourtHandler(courtService, logger)

	routes.RegisterBookingRoutes(router, bookingHandler)
	routes.RegisterCourtRoutes(router, courtHandler)
	routes.RegisterHealthRoutes(router)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
